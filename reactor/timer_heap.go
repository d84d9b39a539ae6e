// File: reactor/timer_heap.go
// Author: momentics <momentics@gmail.com>
//
// Min-heap of armed timer handles ordered by deadline.

package reactor

import "container/heap"

type timerHeap []*TimerHandle

func (t timerHeap) Len() int { return len(t) }

func (t timerHeap) Less(i, j int) bool {
	return t[i].deadline.Before(t[j].deadline)
}

func (t timerHeap) Swap(i, j int) {
	t[i], t[j] = t[j], t[i]
	t[i].heapIndex = i
	t[j].heapIndex = j
}

func (t *timerHeap) Push(x any) {
	h := x.(*TimerHandle)
	h.heapIndex = len(*t)
	*t = append(*t, h)
}

func (t *timerHeap) Pop() any {
	old := *t
	n := len(old)
	h := old[n-1]
	old[n-1] = nil
	h.heapIndex = -1
	*t = old[:n-1]
	return h
}

func (t *timerHeap) remove(h *TimerHandle) {
	if h.heapIndex >= 0 && h.heapIndex < t.Len() && (*t)[h.heapIndex] == h {
		heap.Remove(t, h.heapIndex)
	}
}
