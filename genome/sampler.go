package genome

import (
	"errors"
	"math/rand"
	"sort"

	"github.com/unixpickle/trackfeed"
)

// A PositionSampler draws window centers from a set of
// regions, weighting each region by its length so that
// every covered base is equally likely.
//
// Positions are drawn in buffered blocks of a fixed size.
type PositionSampler struct {
	regions []trackfeed.Region
	cum     []int
	total   int

	size   int
	repeat bool
	rng    *rand.Rand

	buf []trackfeed.Position
	idx int
}

// NewPositionSampler creates a sampler that draws size
// positions at a time from regions.
//
// If repeat is true, the first block of positions is reused
// forever instead of drawing fresh ones.
//
// Regions without a positive length carry no weight and are
// never chosen; if no region has one, sampling would be
// impossible and an error is returned.
func NewPositionSampler(regions []trackfeed.Region, size int, repeat bool,
	rng *rand.Rand) (*PositionSampler, error) {
	if size < 1 {
		return nil, errors.New("position sampler: non-positive buffer size")
	}
	cum := make([]int, len(regions))
	total := 0
	for i, r := range regions {
		if r.Len() > 0 {
			total += r.Len()
		}
		cum[i] = total
	}
	if total == 0 {
		return nil, errors.New("position sampler: no sampleable bases")
	}
	return &PositionSampler{
		regions: regions,
		cum:     cum,
		total:   total,
		size:    size,
		repeat:  repeat,
		rng:     rng,
	}, nil
}

// Next returns the next buffered position, refilling or
// rewinding the buffer when it is used up.
func (p *PositionSampler) Next() trackfeed.Position {
	if p.buf == nil {
		p.buf = make([]trackfeed.Position, p.size)
		p.refill()
	} else if p.idx == len(p.buf) {
		if p.repeat {
			p.idx = 0
		} else {
			p.refill()
		}
	}
	pos := p.buf[p.idx]
	p.idx++
	return pos
}

func (p *PositionSampler) refill() {
	for i := range p.buf {
		r := p.rng.Intn(p.total)
		idx := sort.SearchInts(p.cum, r+1)
		region := p.regions[idx]
		before := 0
		if idx > 0 {
			before = p.cum[idx-1]
		}
		p.buf[i] = trackfeed.Position{
			Chrom:  region.Chrom,
			Center: region.Start + (r - before),
		}
	}
	p.idx = 0
}
