// Package search provides the bucket priority queue and phased frontier
// shared by map generation, pathfinding, and visibility.
package search

import "math"

const none = -1

// Queue is an integer-priority queue over cell indices.
//
// Each bucket holds the head of a singly-linked list threaded through next,
// so a cell can sit in at most one bucket. Within a bucket the most recently
// enqueued cell is dequeued first.
type Queue struct {
	buckets []int
	next    []int
	count   int
	minimum int
}

// NewQueue creates a queue for cell indices in [0, size).
func NewQueue(size int) *Queue {
	q := &Queue{next: make([]int, size)}
	q.Clear()
	return q
}

// Len returns the number of queued cells.
func (q *Queue) Len() int { return q.count }

// Enqueue pushes a cell onto the head of its priority bucket.
func (q *Queue) Enqueue(index, priority int) {
	q.count++
	if priority < q.minimum {
		q.minimum = priority
	}
	for priority >= len(q.buckets) {
		q.buckets = append(q.buckets, none)
	}
	q.next[index] = q.buckets[priority]
	q.buckets[priority] = index
}

// Dequeue removes and returns the head of the lowest non-empty bucket.
func (q *Queue) Dequeue() (int, bool) {
	if q.count == 0 {
		return none, false
	}
	for ; q.minimum < len(q.buckets); q.minimum++ {
		index := q.buckets[q.minimum]
		if index != none {
			q.buckets[q.minimum] = q.next[index]
			q.next[index] = none
			q.count--
			return index, true
		}
	}
	return none, false
}

// Change moves a queued cell from oldPriority to newPriority.
// The cell must currently be in the oldPriority bucket.
func (q *Queue) Change(index, oldPriority, newPriority int) {
	current := q.buckets[oldPriority]
	if current == index {
		q.buckets[oldPriority] = q.next[index]
	} else {
		for q.next[current] != index {
			current = q.next[current]
		}
		q.next[current] = q.next[index]
	}
	q.Enqueue(index, newPriority)
	q.count--
}

// Clear drops every queued cell.
func (q *Queue) Clear() {
	q.buckets = q.buckets[:0]
	q.count = 0
	q.minimum = math.MaxInt
}
