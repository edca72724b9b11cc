package pool

import "testing"

func TestPartitionTotality(t *testing.T) {
	for n := 0; n <= 23; n++ {
		jobs := NumberedJobs(n, func(i int) string { return "" }, func(i int) string { return "" })
		for workers := 1; workers <= 9; workers++ {
			batches := Partition(jobs, workers)
			if len(batches) > workers {
				t.Fatalf("n=%d w=%d: %d batches exceeds workers", n, workers, len(batches))
			}
			next := 1
			for _, b := range batches {
				if len(b) == 0 {
					t.Fatalf("n=%d w=%d: empty batch", n, workers)
				}
				for _, job := range b {
					if job.Index != next {
						t.Fatalf("n=%d w=%d: expected index %d, got %d", n, workers, next, job.Index)
					}
					next++
				}
			}
			if next-1 != n {
				t.Fatalf("n=%d w=%d: covered %d jobs", n, workers, next-1)
			}
		}
	}
}

func TestPartitionSizes(t *testing.T) {
	jobs := NumberedJobs(3, func(int) string { return "" }, func(int) string { return "" })
	batches := Partition(jobs, 2)
	if len(batches) != 2 || len(batches[0]) != 2 || len(batches[1]) != 1 {
		t.Fatalf("expected batches (2,1), got %v", batches)
	}

	if got := Partition(nil, 4); got != nil {
		t.Fatalf("expected no batches for empty input, got %v", got)
	}
	if got := Partition(jobs, 0); len(got) != 1 || len(got[0]) != 3 {
		t.Fatalf("expected one batch when workers <= 0, got %v", got)
	}
}

func TestPartitionBatchesDoNotAlias(t *testing.T) {
	jobs := NumberedJobs(4, func(int) string { return "" }, func(int) string { return "" })
	batches := Partition(jobs, 2)
	batches[0] = append(batches[0], FrameJob{Index: 99})
	if batches[1][0].Index != 3 {
		t.Fatalf("appending to one batch clobbered the next: %v", batches[1])
	}
}

func TestClampWorkers(t *testing.T) {
	tests := []struct{ configured, frames, want int }{
		{4, 10, 4},
		{16, 3, 3},
		{0, 10, 1},
		{-2, 10, 1},
		{4, 0, 1},
	}
	for _, tt := range tests {
		if got := ClampWorkers(tt.configured, tt.frames); got != tt.want {
			t.Errorf("ClampWorkers(%d, %d) = %d, want %d", tt.configured, tt.frames, got, tt.want)
		}
	}
}
