package smon

import "time"

// pendingEntry is one (due time, check) pair waiting in the scheduler's
// priority queue. seq breaks ties between equal due times in FIFO
// insertion order, giving the heap a total order and ruling out
// starvation.
// A nil check with seq 0 is the poison marker used by Flush.
type pendingEntry struct {
	due   time.Time
	check *Check
	seq   uint64
}

func (e pendingEntry) isPoison() bool {
	return e.check == nil
}

// pendingHeap implements container/heap.Interface, ordering by due time and
// then by seq.
type pendingHeap []pendingEntry

func (h pendingHeap) Len() int { return len(h) }

func (h pendingHeap) Less(i, j int) bool {
	if h[i].due.Equal(h[j].due) {
		return h[i].seq < h[j].seq
	}
	return h[i].due.Before(h[j].due)
}

func (h pendingHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *pendingHeap) Push(x any) {
	*h = append(*h, x.(pendingEntry))
}

func (h *pendingHeap) Pop() any {
	old := *h
	n := len(old)
	entry := old[n-1]
	*h = old[:n-1]
	return entry
}
