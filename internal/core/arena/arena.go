package arena

import (
	"container/heap"
	"errors"
)

// ErrFull is returned by Register when every slot of the arena is occupied.
var ErrFull = errors.New("arena full")

// Arena is a fixed-capacity slot allocator. Each registered value owns one
// index until it is released; free indices are reused lowest-first so that
// slot numbers stay compact under churn.
type Arena[T comparable] struct {
	slots    []T
	occupied []bool
	free     freeList
	count    int
}

func New[T comparable](capacity int) *Arena[T] {
	a := &Arena[T]{
		slots:    make([]T, capacity),
		occupied: make([]bool, capacity),
		free:     make(freeList, 0, capacity),
	}
	for i := 0; i < capacity; i++ {
		a.free = append(a.free, i)
	}
	heap.Init(&a.free)
	return a
}

// Register stores v in the lowest free slot and returns its index.
func (a *Arena[T]) Register(v T) (int, error) {
	if a.free.Len() == 0 {
		return -1, ErrFull
	}
	idx := heap.Pop(&a.free).(int)
	a.slots[idx] = v
	a.occupied[idx] = true
	a.count++
	return idx, nil
}

// Release frees index if and only if it currently holds v.
// Releasing a stale or foreign pair is a no-op and returns false.
func (a *Arena[T]) Release(index int, v T) bool {
	if !a.Exists(index, v) {
		return false
	}
	var zero T
	a.slots[index] = zero
	a.occupied[index] = false
	a.count--
	heap.Push(&a.free, index)
	return true
}

// Exists reports whether index is occupied by exactly v.
func (a *Arena[T]) Exists(index int, v T) bool {
	if index < 0 || index >= len(a.slots) || !a.occupied[index] {
		return false
	}
	return a.slots[index] == v
}

// Get returns the value at index.
func (a *Arena[T]) Get(index int) (T, bool) {
	if index < 0 || index >= len(a.slots) || !a.occupied[index] {
		var zero T
		return zero, false
	}
	return a.slots[index], true
}

func (a *Arena[T]) Len() int { return a.count }
func (a *Arena[T]) Cap() int { return len(a.slots) }

// Each visits occupied slots in index order. Returning false stops the walk.
func (a *Arena[T]) Each(fn func(index int, v T) bool) {
	for i, ok := range a.occupied {
		if !ok {
			continue
		}
		if !fn(i, a.slots[i]) {
			return
		}
	}
}

// Values returns a snapshot of occupied values in index order.
func (a *Arena[T]) Values() []T {
	out := make([]T, 0, a.count)
	a.Each(func(_ int, v T) bool {
		out = append(out, v)
		return true
	})
	return out
}

// freeList is a min-heap of free slot indices.
type freeList []int

func (f freeList) Len() int           { return len(f) }
func (f freeList) Less(i, j int) bool { return f[i] < f[j] }
func (f freeList) Swap(i, j int)      { f[i], f[j] = f[j], f[i] }
func (f *freeList) Push(x any)        { *f = append(*f, x.(int)) }
func (f *freeList) Pop() any {
	old := *f
	n := len(old)
	x := old[n-1]
	*f = old[:n-1]
	return x
}
