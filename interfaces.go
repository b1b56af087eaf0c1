package trackfeed

import "github.com/unixpickle/anyvec"

// A SequenceSource samples encoded sequence windows from a
// reference genome.
//
// Implementations pick their own sampling scheme and skip
// unusable candidates (for example, windows with too many
// unknown bases), so every row they produce is usable.
type SequenceSource interface {
	// EncodedLen returns the number of vector components
	// per encoded window.
	EncodedLen() int

	// FetchInto overwrites out, which has n*EncodedLen()
	// components, with n encoded windows, and returns the
	// center position of each window in order.
	FetchInto(out anyvec.Vector, n int) ([]Position, error)
}

// A Collection is an ordered set of signal tracks that can
// be read at sampled windows.
//
// Values are reduced windowSize bases at a time, so a read
// of w bases produces w/windowSize bins per track. Row i of
// the output is the concatenation, track by track, of the
// binned values for [starts[i], ends[i]) on chroms[i].
// All windows of one read have the same length, which is a
// multiple of windowSize.
type Collection interface {
	// Len returns the number of tracks.
	Len() int

	// FetchInto overwrites out with one row per window.
	FetchInto(out anyvec.Vector, chroms []string, starts, ends []int,
		windowSize int) error

	// Reset releases cached resources, leaving the
	// collection usable; later fetches reallocate what they
	// need. It is idempotent.
	Reset() error
}

// A Smoother filters a signal buffer along its bin axis.
type Smoother interface {
	// Smooth treats signal as a row-major matrix with the
	// given number of columns and returns a filtered vector
	// of the same length. It may return signal itself, and
	// the caller may copy the result back over signal.
	Smooth(signal anyvec.Vector, bins int) anyvec.Vector
}
