package scenegraph

import (
	"sync/atomic"
	"testing"
)

func TestTask_VisitsEachElementOnce(t *testing.T) {
	tests := []struct {
		name    string
		workers int
		size    int
	}{
		{"empty", 4, 0},
		{"single worker", 1, 10},
		{"zero workers", 0, 10},
		{"more workers than data", 16, 3},
		{"uneven chunks", 3, 10},
		{"many", 8, 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := make([]int, tt.size)
			for i := range data {
				data[i] = i
			}
			visits := make([]atomic.Int32, tt.size)

			task(tt.workers, data, func(i int) {
				visits[i].Add(1)
			})

			for i := range visits {
				if n := visits[i].Load(); n != 1 {
					t.Errorf("element %d visited %d times, want 1", i, n)
				}
			}
		})
	}
}
