package planner

import "container/heap"

// candidateQueue is a min-heap of generated cells ordered by final cost.
// No (i,j,k) entry is pushed twice, enforced upstream by cell.queued.
type candidateQueue []*cell

func (q candidateQueue) Len() int { return len(q) }

func (q candidateQueue) Less(a, b int) bool {
	return q[a].path.FinalCost() < q[b].path.FinalCost()
}

func (q candidateQueue) Swap(a, b int) { q[a], q[b] = q[b], q[a] }

func (q *candidateQueue) Push(x interface{}) {
	*q = append(*q, x.(*cell))
}

func (q *candidateQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

var _ heap.Interface = (*candidateQueue)(nil)
