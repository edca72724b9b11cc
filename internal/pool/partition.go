package pool

// FrameJob describes one frame to render. Index is 1-based and fixes the
// frame's position in the reassembled output.
type FrameJob struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Index       int    `json:"index"`
}

// Batch is a contiguous run of frame jobs assigned to a single worker.
type Batch []FrameJob

// Partition splits jobs into at most workers contiguous batches of
// ceil(len(jobs)/workers) frames; the last batch may be shorter.
func Partition(jobs []FrameJob, workers int) []Batch {
	if len(jobs) == 0 {
		return nil
	}
	if workers <= 0 {
		workers = 1
	}
	size := (len(jobs) + workers - 1) / workers
	batches := make([]Batch, 0, (len(jobs)+size-1)/size)
	for start := 0; start < len(jobs); start += size {
		end := min(start+size, len(jobs))
		batches = append(batches, Batch(jobs[start:end:end]))
	}
	return batches
}

// ClampWorkers bounds the configured worker count to [1, frames].
func ClampWorkers(configured, frames int) int {
	return max(1, min(configured, frames))
}

// NumberedJobs builds one job per frame using the supplied path builders.
func NumberedJobs(count int, source, destination func(index int) string) []FrameJob {
	jobs := make([]FrameJob, count)
	for i := range jobs {
		index := i + 1
		jobs[i] = FrameJob{Source: source(index), Destination: destination(index), Index: index}
	}
	return jobs
}

func countFrames(batches []Batch) int {
	total := 0
	for _, b := range batches {
		total += len(b)
	}
	return total
}
