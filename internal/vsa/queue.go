package vsa

import "container/heap"

// candidate is a face offered to a proxy during flooding.
type candidate struct {
	Face       int
	Label      int
	Distortion float64
}

// floodQueue is a min-heap of candidates ordered by distortion only.
type floodQueue []candidate

func (q floodQueue) Len() int           { return len(q) }
func (q floodQueue) Less(i, j int) bool { return q[i].Distortion < q[j].Distortion }
func (q floodQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }

func (q *floodQueue) Push(x interface{}) {
	*q = append(*q, x.(candidate))
}

func (q *floodQueue) Pop() interface{} {
	old := *q
	n := len(old)
	c := old[n-1]
	*q = old[:n-1]
	return c
}

func (q *floodQueue) push(c candidate, m *Metrics) {
	heap.Push(q, c)
	if m != nil {
		m.QueuePushes++
	}
}

func (q *floodQueue) pop(m *Metrics) candidate {
	if m != nil {
		m.QueuePops++
	}
	return heap.Pop(q).(candidate)
}
