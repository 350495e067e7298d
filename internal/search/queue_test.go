package search

import (
	"math/rand"
	"testing"
)

func drain(q *Queue) []int {
	var out []int
	for {
		i, ok := q.Dequeue()
		if !ok {
			return out
		}
		out = append(out, i)
	}
}

func TestQueueEmpty(t *testing.T) {
	q := NewQueue(4)
	if i, ok := q.Dequeue(); ok || i != -1 {
		t.Fatalf("Dequeue on empty queue = (%d, %v), want (-1, false)", i, ok)
	}
}

func TestQueueOrderAndTieBreak(t *testing.T) {
	q := NewQueue(6)
	q.Enqueue(0, 3)
	q.Enqueue(1, 1)
	q.Enqueue(2, 3)
	q.Enqueue(3, 0)
	q.Enqueue(4, 1)
	q.Enqueue(5, 7)

	got := drain(q)
	want := []int{3, 4, 1, 2, 0, 5}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
	if q.Len() != 0 {
		t.Fatalf("Len = %d after drain", q.Len())
	}
}

func TestQueueChange(t *testing.T) {
	q := NewQueue(4)
	q.Enqueue(0, 5)
	q.Enqueue(1, 5)
	q.Enqueue(2, 5)
	q.Enqueue(3, 2)

	// 1 sits in the middle of bucket 5.
	q.Change(1, 5, 1)
	if q.Len() != 4 {
		t.Fatalf("Change altered count: %d", q.Len())
	}
	// 2 is the bucket head.
	q.Change(2, 5, 3)

	got := drain(q)
	want := []int{1, 3, 2, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestQueueEnqueueBelowMinimumAfterDequeue(t *testing.T) {
	q := NewQueue(3)
	q.Enqueue(0, 4)
	q.Enqueue(1, 6)
	if i, _ := q.Dequeue(); i != 0 {
		t.Fatalf("first dequeue = %d", i)
	}
	q.Enqueue(2, 1)
	if i, _ := q.Dequeue(); i != 2 {
		t.Fatalf("lower priority should come next, got %d", i)
	}
}

func TestQueueClear(t *testing.T) {
	q := NewQueue(3)
	q.Enqueue(0, 1)
	q.Enqueue(1, 2)
	q.Clear()
	if q.Len() != 0 {
		t.Fatal("Clear should reset count")
	}
	if _, ok := q.Dequeue(); ok {
		t.Fatal("Clear should drop queued cells")
	}
	q.Enqueue(2, 9)
	if i, ok := q.Dequeue(); !ok || i != 2 {
		t.Fatal("queue should be reusable after Clear")
	}
}

func TestQueueRandomizedNonDecreasing(t *testing.T) {
	const n = 200
	rng := rand.New(rand.NewSource(7))
	q := NewQueue(n)
	priority := make([]int, n)
	for i := 0; i < n; i++ {
		priority[i] = rng.Intn(50) + 10
		q.Enqueue(i, priority[i])
	}
	for i := 0; i < n; i += 3 {
		p := rng.Intn(priority[i] + 1)
		q.Change(i, priority[i], p)
		priority[i] = p
	}

	last := -1
	seen := 0
	for {
		i, ok := q.Dequeue()
		if !ok {
			break
		}
		if priority[i] < last {
			t.Fatalf("priority %d dequeued after %d", priority[i], last)
		}
		last = priority[i]
		seen++
	}
	if seen != n {
		t.Fatalf("dequeued %d cells, want %d", seen, n)
	}
}
