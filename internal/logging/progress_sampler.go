package logging

// ProgressSampler thins frame progress down to one log line per percentage
// step. Completion is always reported.
type ProgressSampler struct {
	step     float64
	lastStep int
	finished bool
}

// NewProgressSampler returns a sampler emitting at most once per step
// percent; non-positive steps default to 10.
func NewProgressSampler(step float64) *ProgressSampler {
	if step <= 0 {
		step = 10
	}
	return &ProgressSampler{step: step, lastStep: -1}
}

// Sample returns the completion percentage and whether it should be logged.
// Totals of zero or less are never logged.
func (s *ProgressSampler) Sample(completed, total int) (float64, bool) {
	if total <= 0 {
		return 0, false
	}
	completed = min(max(completed, 0), total)
	percent := float64(completed) / float64(total) * 100
	if s == nil {
		return percent, true
	}
	if completed == total {
		if s.finished {
			return percent, false
		}
		s.finished = true
		return percent, true
	}
	step := int(percent / s.step)
	if step <= s.lastStep {
		return percent, false
	}
	s.lastStep = step
	return percent, true
}

// Reset forgets previously reported steps.
func (s *ProgressSampler) Reset() {
	if s == nil {
		return
	}
	s.lastStep = -1
	s.finished = false
}
