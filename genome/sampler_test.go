package genome

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unixpickle/trackfeed"
)

func TestPositionSamplerWeighting(t *testing.T) {
	regions := []trackfeed.Region{
		{Chrom: "a", Start: 0, End: 100},
		{Chrom: "b", Start: 1000, End: 1900},
	}
	s, err := NewPositionSampler(regions, 1000, false, rand.New(rand.NewSource(7)))
	require.NoError(t, err)

	counts := map[string]int{}
	for i := 0; i < 10000; i++ {
		p := s.Next()
		counts[p.Chrom]++
		switch p.Chrom {
		case "a":
			assert.GreaterOrEqual(t, p.Center, 0)
			assert.Less(t, p.Center, 100)
		case "b":
			assert.GreaterOrEqual(t, p.Center, 1000)
			assert.Less(t, p.Center, 1900)
		default:
			t.Fatalf("unexpected chromosome %s", p.Chrom)
		}
	}
	// b covers nine times as many bases as a.
	assert.InDelta(t, 9000, counts["b"], 300)
}

func TestPositionSamplerRepeat(t *testing.T) {
	regions := []trackfeed.Region{{Chrom: "a", Start: 0, End: 1000}}
	s, err := NewPositionSampler(regions, 5, true, rand.New(rand.NewSource(9)))
	require.NoError(t, err)

	first := make([]trackfeed.Position, 5)
	for i := range first {
		first[i] = s.Next()
	}
	for round := 0; round < 3; round++ {
		for i := range first {
			assert.Equal(t, first[i], s.Next(), "round %d position %d", round, i)
		}
	}
}

func TestPositionSamplerFresh(t *testing.T) {
	regions := []trackfeed.Region{{Chrom: "a", Start: 0, End: 1000}}
	s, err := NewPositionSampler(regions, 5, false, rand.New(rand.NewSource(9)))
	require.NoError(t, err)

	first := make([]trackfeed.Position, 5)
	for i := range first {
		first[i] = s.Next()
	}
	second := make([]trackfeed.Position, 5)
	for i := range second {
		second[i] = s.Next()
	}
	assert.NotEqual(t, first, second)
}

func TestPositionSamplerZeroWeight(t *testing.T) {
	regions := []trackfeed.Region{
		{Chrom: "z", Start: 10, End: 10},
		{Chrom: "a", Start: 0, End: 50},
	}
	s, err := NewPositionSampler(regions, 100, false, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	for i := 0; i < 500; i++ {
		assert.Equal(t, "a", s.Next().Chrom)
	}

	_, err = NewPositionSampler([]trackfeed.Region{{Chrom: "z", Start: 10, End: 10}},
		100, false, rand.New(rand.NewSource(1)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no sampleable bases")

	_, err = NewPositionSampler(regions, 0, false, rand.New(rand.NewSource(1)))
	require.Error(t, err)
}
