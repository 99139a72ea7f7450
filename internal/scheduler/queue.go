package scheduler

import (
	"container/heap"

	"github.com/vk/stepplan/internal/step"
)

// idHeap implements heap.Interface as a min-heap of step IDs.
type idHeap []step.ID

func (h idHeap) Len() int           { return len(h) }
func (h idHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h idHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *idHeap) Push(x any) {
	*h = append(*h, x.(step.ID))
}

func (h *idHeap) Pop() any {
	old := *h
	n := len(old)
	id := old[n-1]
	*h = old[:n-1]
	return id
}

// readyQueue yields ready steps smallest first.
type readyQueue struct {
	ids idHeap
}

func newReadyQueue(ids ...step.ID) *readyQueue {
	q := &readyQueue{ids: append(idHeap(nil), ids...)}
	heap.Init(&q.ids)
	return q
}

func (q *readyQueue) Len() int {
	return q.ids.Len()
}

func (q *readyQueue) Push(id step.ID) {
	heap.Push(&q.ids, id)
}

// Pop removes and returns the smallest ready step. The queue must not be empty.
func (q *readyQueue) Pop() step.ID {
	return heap.Pop(&q.ids).(step.ID)
}
