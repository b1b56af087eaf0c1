package trackfeed

import "github.com/unixpickle/anyvec"

// A MovingAverage is a Smoother that replaces every bin
// with the mean of a fixed-width window of bins around it.
// Bins past either end of a row count as zero.
//
// The window covers offsets [-(Window/2), (Window-1)/2]
// around each bin, matching a centered convolution with a
// box filter.
type MovingAverage struct {
	// Window is the number of bins averaged per output bin.
	// Values below 2 disable filtering.
	Window int

	creator anyvec.Creator
	rows    int
	bins    int
	pad     anyvec.Mapper
	taps    anyvec.Mapper
}

// Smooth filters every row of the signal.
//
// If the window is below 2, signal itself is returned.
// Otherwise a new vector is allocated.
//
// This is not thread-safe.
func (m *MovingAverage) Smooth(signal anyvec.Vector, bins int) anyvec.Vector {
	if m.Window < 2 {
		return signal
	}
	if bins < 1 || signal.Len()%bins != 0 {
		panic("column count must divide input size")
	}
	rows := signal.Len() / bins
	c := signal.Creator()
	if m.pad == nil || m.creator != c || m.rows != rows || m.bins != bins {
		m.initMappers(c, rows, bins)
	}
	padded := c.MakeVector(m.pad.InSize())
	m.pad.MapTranspose(signal, padded)
	expanded := c.MakeVector(m.taps.OutSize())
	m.taps.Map(padded, expanded)
	out := anyvec.SumRows(expanded, signal.Len())
	out.Scale(c.MakeNumeric(1 / float64(m.Window)))
	return out
}

// initMappers builds the scatter mapper, which copies rows
// into the middle of zero-padded rows, and the gather
// mapper, which reads one shifted copy of the padded matrix
// per window tap.
func (m *MovingAverage) initMappers(c anyvec.Creator, rows, bins int) {
	m.creator = c
	m.rows = rows
	m.bins = bins
	padded := bins + m.Window - 1
	left := m.Window / 2

	table := make([]int, 0, rows*bins)
	for r := 0; r < rows; r++ {
		for b := 0; b < bins; b++ {
			table = append(table, r*padded+left+b)
		}
	}
	m.pad = c.MakeMapper(rows*padded, table)

	table = make([]int, 0, m.Window*rows*bins)
	for t := 0; t < m.Window; t++ {
		for r := 0; r < rows; r++ {
			for b := 0; b < bins; b++ {
				table = append(table, r*padded+b+t)
			}
		}
	}
	m.taps = c.MakeMapper(rows*padded, table)
}
