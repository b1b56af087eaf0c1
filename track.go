package trackfeed

import "fmt"

// A Track is one genomic signal source addressed by
// chromosome position.
type Track interface {
	// Path returns the file the track came from, or a
	// symbolic name for tracks not backed by a file.
	Path() string

	// Values fills out with per-base values for the
	// half-open interval [start, end) on chrom, in order.
	// Bases outside the track's coverage are zero.
	// len(out) must be end-start.
	Values(chrom string, start, end int, out []float64) error
}

// A MemTrack is a Track backed by dense in-memory value
// slices, one per chromosome.
type MemTrack struct {
	// Name is reported by Path.
	Name string

	// Data maps chromosome names to per-base values,
	// starting at base 0.
	Data map[string][]float64
}

// Path returns the track's name.
func (m *MemTrack) Path() string {
	return m.Name
}

// SetRange sets the value of every base in [start, end) on
// chrom, growing the chromosome's data as needed. Negative
// positions are clipped away.
func (m *MemTrack) SetRange(chrom string, start, end int, value float64) {
	if start < 0 {
		start = 0
	}
	if end <= start {
		return
	}
	if m.Data == nil {
		m.Data = map[string][]float64{}
	}
	data := m.Data[chrom]
	if len(data) < end {
		data = append(data, make([]float64, end-len(data))...)
	}
	for i := start; i < end; i++ {
		data[i] = value
	}
	m.Data[chrom] = data
}

// Values reads per-base values for [start, end) on chrom.
// Positions outside the stored data are zero. Chromosomes
// missing from Data produce an error.
func (m *MemTrack) Values(chrom string, start, end int, out []float64) error {
	if len(out) != end-start {
		panic("output length must match the interval")
	}
	data, ok := m.Data[chrom]
	if !ok {
		return fmt.Errorf("track %s: no chromosome %s", m.Name, chrom)
	}
	for i := range out {
		out[i] = 0
	}
	lo, hi := start, end
	if lo < 0 {
		lo = 0
	}
	if hi > len(data) {
		hi = len(data)
	}
	if lo < hi {
		copy(out[lo-start:], data[lo:hi])
	}
	return nil
}
