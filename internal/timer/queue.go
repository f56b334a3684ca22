// Package timer implements the discrete-event list used for delayed effects.
// Entries are keyed by simulation time, not wall clock; nothing sleeps.
package timer

import "container/heap"

type entry[T any] struct {
	at    float64
	seq   uint64
	value T
}

type entries[T any] []entry[T]

func (e entries[T]) Len() int { return len(e) }

func (e entries[T]) Less(i, j int) bool {
	if e[i].at != e[j].at {
		return e[i].at < e[j].at
	}
	return e[i].seq < e[j].seq
}

func (e entries[T]) Swap(i, j int) { e[i], e[j] = e[j], e[i] }

func (e *entries[T]) Push(x any) { *e = append(*e, x.(entry[T])) }

func (e *entries[T]) Pop() any {
	old := *e
	n := len(old)
	it := old[n-1]
	*e = old[:n-1]
	return it
}

// Queue orders values by (due time, insertion order).
// Not safe for concurrent use: the simulation drains it from a single goroutine.
type Queue[T any] struct {
	h   entries[T]
	seq uint64
}

// Schedule adds v, due at simulation time at.
func (q *Queue[T]) Schedule(at float64, v T) {
	q.seq++
	heap.Push(&q.h, entry[T]{at: at, seq: q.seq, value: v})
}

// Next pops the earliest entry due at or before now.
// Entries scheduled while draining are visible to the next call.
func (q *Queue[T]) Next(now float64) (T, bool) {
	var zero T
	if len(q.h) == 0 || q.h[0].at > now {
		return zero, false
	}
	it := heap.Pop(&q.h).(entry[T])
	return it.value, true
}

// Peek returns the due time of the earliest entry.
func (q *Queue[T]) Peek() (float64, bool) {
	if len(q.h) == 0 {
		return 0, false
	}
	return q.h[0].at, true
}

// Cancel removes every entry matching fn and returns how many were removed.
func (q *Queue[T]) Cancel(fn func(T) bool) int {
	kept := q.h[:0]
	removed := 0
	for _, it := range q.h {
		if fn(it.value) {
			removed++
			continue
		}
		kept = append(kept, it)
	}
	clear(q.h[len(kept):])
	q.h = kept
	if removed > 0 {
		heap.Init(&q.h)
	}
	return removed
}

// Len returns the number of pending entries.
func (q *Queue[T]) Len() int {
	return len(q.h)
}
