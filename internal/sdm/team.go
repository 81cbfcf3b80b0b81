package sdm

import (
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

// DefaultMinChunk is the smallest range a single worker is given.
const DefaultMinChunk = 64

// Team is a fixed group of cooperating workers operating on one
// partitioned unit of work. Every phase joins all of its workers before
// returning, so consecutive phases are separated by a barrier.
type Team struct {
	size     int
	minChunk int
}

func NewTeam(size int) *Team {
	if size < 1 {
		size = 1
	}
	return &Team{size: size, minChunk: DefaultMinChunk}
}

// WithMinChunk returns a copy of the team that splits ranges no finer than n.
func (t *Team) WithMinChunk(n int) *Team {
	if n < 1 {
		n = 1
	}
	return &Team{size: t.size, minChunk: n}
}

func (t *Team) Size() int {
	return t.size
}

// chunks splits [0, n) into at most t.size contiguous ranges.
func (t *Team) chunks(n int) (workers, chunkSize int) {
	workers = t.size
	if n <= t.minChunk || workers <= 1 {
		return 1, n
	}
	if n/t.minChunk < workers {
		workers = n / t.minChunk
	}
	if workers < 1 {
		workers = 1
	}
	chunkSize = (n + workers - 1) / workers
	return workers, chunkSize
}

// ForRange executes fn over disjoint sub-ranges of [0, n) in parallel and
// returns the first error any worker produced.
func (t *Team) ForRange(n int, fn func(start, end int) error) error {
	if n <= 0 {
		return nil
	}
	workers, chunkSize := t.chunks(n)
	if workers == 1 {
		return fn(0, n)
	}

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		start := w * chunkSize
		end := min(start+chunkSize, n)
		if start >= end {
			break
		}
		g.Go(func() error {
			return fn(start, end)
		})
	}
	return g.Wait()
}

// For executes fn for every index in [0, n).
func (t *Team) For(n int, fn func(i int) error) error {
	return t.ForRange(n, func(start, end int) error {
		for i := start; i < end; i++ {
			if err := fn(i); err != nil {
				return err
			}
		}
		return nil
	})
}

// Reduce sums fn over [0, n). Each worker accumulates a private partial
// sum; partials are combined once every worker has finished.
func (t *Team) Reduce(n int, fn func(i int) (float64, error)) (float64, error) {
	if n <= 0 {
		return 0, nil
	}
	workers, chunkSize := t.chunks(n)
	partials := make([]float64, workers)

	err := t.ForRange(n, func(start, end int) error {
		w := start / chunkSize
		var acc float64
		for i := start; i < end; i++ {
			v, err := fn(i)
			if err != nil {
				return err
			}
			acc += v
		}
		partials[w] = acc
		return nil
	})
	if err != nil {
		return 0, err
	}
	return floats.Sum(partials), nil
}

// Count returns how many indices in [0, n) fn reports true for.
func (t *Team) Count(n int, fn func(i int) (bool, error)) (int, error) {
	if n <= 0 {
		return 0, nil
	}
	workers, chunkSize := t.chunks(n)
	partials := make([]int, workers)

	err := t.ForRange(n, func(start, end int) error {
		w := start / chunkSize
		for i := start; i < end; i++ {
			ok, err := fn(i)
			if err != nil {
				return err
			}
			if ok {
				partials[w]++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	total := 0
	for _, c := range partials {
		total += c
	}
	return total, nil
}

// Single runs fn on exactly one worker. Callers sequence it between
// parallel phases, which have already joined.
func (t *Team) Single(fn func() error) error {
	return fn()
}
