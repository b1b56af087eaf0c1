// Package genome samples encoded training windows from a
// reference genome.
package genome

import (
	"bytes"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/unixpickle/anyvec"
	"github.com/unixpickle/trackfeed"
)

// maxSampleAttempts bounds how many candidate positions are
// tried per returned window before giving up.
const maxSampleAttempts = 10000

// A Config describes how windows are sampled and encoded.
//
// Fields with a documented default may be left zero.
type Config struct {
	// Regions are the intervals window centers are drawn
	// from, weighted by their lengths.
	Regions []trackfeed.Region

	// SequenceLength is the number of bases per window.
	// Default: 1000.
	SequenceLength int

	// MaxUnknownFrac is the highest tolerated fraction of
	// unknown bases (anything but A, C, G and T) per
	// window. Windows over the threshold are resampled.
	// A negative value tolerates none. Default: 0.1.
	MaxUnknownFrac float64

	// Encoder encodes sampled windows.
	// If it is nil, OneHot{} is used.
	Encoder Encoder

	// BufferSize is the number of positions drawn at a
	// time. Default: 100000.
	BufferSize int

	// RepeatSamePositions makes the sampler rewind its
	// buffer instead of drawing new positions, so the same
	// windows come back every BufferSize samples. Useful
	// for overfitting checks.
	RepeatSamePositions bool

	// Rand is the sampling source.
	// If it is nil, a time-seeded source is used.
	Rand *rand.Rand
}

// A Genome is a trackfeed.SequenceSource that reads windows
// out of in-memory chromosome sequences.
type Genome struct {
	seqs    map[string][]byte
	cfg     Config
	sampler *PositionSampler
	staging []float64
}

// New reads the FASTA file at path and prepares it for
// sampling with cfg.
func New(path string, cfg Config) (*Genome, error) {
	seqs, err := ReadFASTA(path)
	if err != nil {
		return nil, err
	}
	return NewFromSequences(seqs, cfg)
}

// NewFromSequences prepares in-memory chromosome sequences
// for sampling with cfg. The sequences are copied and
// upper-cased.
//
// Every region must name a chromosome present in seqs, and
// the regions must cover at least one base.
func NewFromSequences(seqs map[string][]byte, cfg Config) (*Genome, error) {
	if cfg.SequenceLength == 0 {
		cfg.SequenceLength = 1000
	} else if cfg.SequenceLength < 0 {
		return nil, errors.New("sample genome: negative sequence length")
	}
	if cfg.MaxUnknownFrac == 0 {
		cfg.MaxUnknownFrac = 0.1
	} else if cfg.MaxUnknownFrac < 0 {
		cfg.MaxUnknownFrac = 0
	}
	if cfg.Encoder == nil {
		cfg.Encoder = OneHot{}
	}
	if cfg.BufferSize == 0 {
		cfg.BufferSize = 100000
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	upper := map[string][]byte{}
	for name, s := range seqs {
		upper[name] = bytes.ToUpper(s)
	}
	for _, r := range cfg.Regions {
		if _, ok := upper[r.Chrom]; !ok {
			return nil, errors.New("sample genome: no chromosome " + r.Chrom)
		}
	}
	sampler, err := NewPositionSampler(cfg.Regions, cfg.BufferSize,
		cfg.RepeatSamePositions, cfg.Rand)
	if err != nil {
		return nil, err
	}
	return &Genome{seqs: upper, cfg: cfg, sampler: sampler}, nil
}

// EncodedLen returns the number of vector components per
// encoded window.
func (g *Genome) EncodedLen() int {
	return g.cfg.SequenceLength * g.cfg.Encoder.Width()
}

// FetchInto samples n windows, encodes them into out, and
// returns their center positions.
//
// Candidate windows that hang off their chromosome or
// exceed the unknown-base tolerance are skipped. If no
// acceptable window turns up after many attempts, an error
// is returned.
func (g *Genome) FetchInto(out anyvec.Vector, n int) ([]trackfeed.Position, error) {
	width := g.cfg.Encoder.Width()
	length := g.cfg.SequenceLength
	if out.Len() != n*length*width {
		panic("incorrect output size")
	}
	if len(g.staging) != out.Len() {
		g.staging = make([]float64, out.Len())
	}
	positions := make([]trackfeed.Position, n)
	for i := range positions {
		pos, window, err := g.sample()
		if err != nil {
			return nil, err
		}
		g.cfg.Encoder.Encode(g.staging[i*length*width:(i+1)*length*width], window)
		positions[i] = pos
	}
	out.SetData(out.Creator().MakeNumericList(g.staging))
	return positions, nil
}

func (g *Genome) sample() (trackfeed.Position, []byte, error) {
	length := g.cfg.SequenceLength
	for i := 0; i < maxSampleAttempts; i++ {
		pos := g.sampler.Next()
		start := pos.Center - length/2
		seq := g.seqs[pos.Chrom]
		if start < 0 || start+length > len(seq) {
			continue
		}
		window := seq[start : start+length]
		if unknownFrac(window) > g.cfg.MaxUnknownFrac {
			continue
		}
		return pos, window, nil
	}
	return trackfeed.Position{}, nil, fmt.Errorf(
		"sample genome: no acceptable window after %d attempts", maxSampleAttempts)
}

func unknownFrac(window []byte) float64 {
	var unknown int
	for _, b := range window {
		switch b {
		case 'A', 'C', 'G', 'T':
		default:
			unknown++
		}
	}
	return float64(unknown) / float64(len(window))
}
