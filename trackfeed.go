// Package trackfeed streams batches of paired (reference
// sequence, signal track) training data for anyvec-based
// models.
//
// A Dataset repeatedly slices small training batches out of
// larger super-batches, which are materialized into a pair
// of persistent vectors so that steady-state iteration does
// not reallocate them. Sequence windows come from a
// SequenceSource, and per-base signal values come from a
// Collection, which bins and scales them before an optional
// Smoother pass.
package trackfeed

import (
	"errors"

	"github.com/unixpickle/anyvec"
	"github.com/unixpickle/anyvec/anyvec32"
)

// Errors for invalid dataset configurations.
var (
	ErrSuperBatchSize = errors.New("super batch size is less than batch size")
	ErrNoCollection   = errors.New("no track collection or collection paths")
	ErrNoSequences    = errors.New("no sequence source")
)

// DefaultFileExtensions is the extension filter used to
// resolve track files when Config.FileExtensions is nil.
var DefaultFileExtensions = []string{".bigWig", ".bw"}

// A TrackOpener opens the track file at a path.
//
// The directIO flag indicates that the caller would like
// file contents to go straight to compute-device memory.
// Openers which cannot arrange that should treat the flag
// as advisory.
type TrackOpener func(path string, directIO bool) (Track, error)

// A Config describes a dataset of paired (sequence, signal)
// windows sampled from a reference genome.
//
// Fields with a documented default may be left zero.
type Config struct {
	// Sequences produces encoded sequence windows and the
	// center positions that signal is read at.
	Sequences SequenceSource

	// Collection is the signal source for sampled windows.
	// If it is nil, a TrackCollection is opened lazily from
	// CollectionPaths on the first fetch.
	Collection Collection

	// CollectionPaths lists track files, or directories to
	// search for them, used when Collection is nil.
	CollectionPaths []string

	// FileExtensions filters files found in directories
	// from CollectionPaths.
	// If it is nil, DefaultFileExtensions is used.
	FileExtensions []string

	// DisableCrawl restricts directory resolution to direct
	// children rather than a full recursive walk.
	DisableCrawl bool

	// FirstN, if positive, keeps only the first FirstN
	// resolved track files, in sorted order.
	FirstN int

	// Scale maps track files to multipliers applied to
	// their values. Keys may be a track's full path, its
	// file name, or its file name without the extension.
	Scale map[string]float64

	// Opener opens resolved track files.
	// If it is nil, OpenTrack is used.
	Opener TrackOpener

	// DisableDirectIO asks the opener not to route file
	// contents directly to device memory.
	DisableDirectIO bool

	// Regions are the intervals that training windows may
	// be sampled from. Their total length determines the
	// default number of batches per epoch.
	Regions []Region

	// SequenceLength is the number of bases per sampled
	// window. Default: 1000.
	SequenceLength int

	// CenterBinToPredict is the number of bases, centered
	// in each sequence window, that signal is collected
	// for. It is rounded down to a whole number of windows
	// of WindowSize bases. Default: SequenceLength.
	CenterBinToPredict int

	// WindowSize is the number of bases averaged into one
	// signal bin. Default: 1.
	WindowSize int

	// MovingAverageWindowSize is the width of the moving
	// average applied to fetched signal bins. Values below
	// 2 disable smoothing. Default: 1.
	MovingAverageWindowSize int

	// Smoother, if non-nil, replaces the moving-average
	// smoothing pass.
	Smoother Smoother

	// BatchSize is the number of rows per training batch.
	// Default: 256.
	BatchSize int

	// SuperBatchSize is the number of rows materialized by
	// one fetch. It must be at least BatchSize.
	// Default: BatchSize.
	SuperBatchSize int

	// BatchesPerEpoch, if positive, overrides the computed
	// number of batches per epoch.
	BatchesPerEpoch int

	// Creator allocates the persistent sample buffers.
	// If it is nil, anyvec32.CurrentCreator() is used.
	Creator anyvec.Creator
}

// withDefaults returns a copy of c with defaults filled in
// for zero fields.
func (c *Config) withDefaults() Config {
	res := *c
	if res.FileExtensions == nil {
		res.FileExtensions = DefaultFileExtensions
	}
	if res.Opener == nil {
		res.Opener = OpenTrack
	}
	if res.SequenceLength == 0 {
		res.SequenceLength = 1000
	}
	if res.CenterBinToPredict == 0 {
		res.CenterBinToPredict = res.SequenceLength
	}
	if res.WindowSize == 0 {
		res.WindowSize = 1
	}
	if res.MovingAverageWindowSize == 0 {
		res.MovingAverageWindowSize = 1
	}
	if res.BatchSize == 0 {
		res.BatchSize = 256
	}
	if res.SuperBatchSize == 0 {
		res.SuperBatchSize = res.BatchSize
	}
	if res.Creator == nil {
		res.Creator = anyvec32.CurrentCreator()
	}
	if res.Smoother == nil && res.MovingAverageWindowSize > 1 {
		res.Smoother = &MovingAverage{Window: res.MovingAverageWindowSize}
	}
	return res
}

// validate checks a configuration that has already been
// through withDefaults.
func (c *Config) validate() error {
	if c.Sequences == nil {
		return ErrNoSequences
	}
	if c.Collection == nil && len(c.CollectionPaths) == 0 {
		return ErrNoCollection
	}
	sizes := []int{c.SequenceLength, c.CenterBinToPredict, c.WindowSize,
		c.MovingAverageWindowSize, c.BatchSize, c.SuperBatchSize}
	for _, size := range sizes {
		if size < 1 {
			return errors.New("negative size option")
		}
	}
	if c.CenterBinToPredict < c.WindowSize {
		return errors.New("window size is larger than the predicted center")
	}
	return nil
}
