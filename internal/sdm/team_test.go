package sdm

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTeam_ForVisitsEveryIndexOnce(t *testing.T) {
	for _, size := range []int{1, 2, 4, 7} {
		team := NewTeam(size).WithMinChunk(8)
		n := 1000
		visits := make([]int32, n)

		err := team.For(n, func(i int) error {
			atomic.AddInt32(&visits[i], 1)
			return nil
		})
		require.NoError(t, err)

		for i, v := range visits {
			if v != 1 {
				t.Fatalf("team size %d: index %d visited %d times", size, i, v)
			}
		}
	}
}

func TestTeam_ForPropagatesError(t *testing.T) {
	team := NewTeam(4).WithMinChunk(1)
	boom := errors.New("boom")

	err := team.For(100, func(i int) error {
		if i == 57 {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
}

func TestTeam_Reduce(t *testing.T) {
	team := NewTeam(4).WithMinChunk(10)

	sum, err := team.Reduce(1001, func(i int) (float64, error) {
		return float64(i), nil
	})
	require.NoError(t, err)
	assert.InDelta(t, 500500.0, sum, 1e-9)

	sum, err = team.Reduce(0, func(i int) (float64, error) { return 1, nil })
	require.NoError(t, err)
	assert.Zero(t, sum)
}

func TestTeam_Count(t *testing.T) {
	team := NewTeam(3).WithMinChunk(5)

	n, err := team.Count(100, func(i int) (bool, error) {
		return i%4 == 0, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 25, n)
}

func TestTeam_SizeFloor(t *testing.T) {
	assert.Equal(t, 1, NewTeam(0).Size())
	assert.Equal(t, 1, NewTeam(-3).Size())
}

func BenchmarkTeam_Reduce(b *testing.B) {
	team := NewTeam(4)
	for i := 0; i < b.N; i++ {
		_, _ = team.Reduce(1<<14, func(j int) (float64, error) {
			return float64(j) * 0.5, nil
		})
	}
}
