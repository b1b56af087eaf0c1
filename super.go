package trackfeed

import (
	"fmt"

	"github.com/unixpickle/anyvec"
	"github.com/unixpickle/essentials"
)

// A SuperBatch is the result of one fetch: a block of
// encoded sequence rows and the matching signal rows.
//
// The vectors are owned by the SuperDataset that produced
// the batch. Its next fetch overwrites them.
type SuperBatch struct {
	// Sequences holds Num rows of encoded sequence.
	Sequences anyvec.Vector

	// Signal holds Num rows of Tracks*Bins binned values,
	// grouped by track within each row.
	Signal anyvec.Vector

	// Positions holds the window centers, one per row.
	Positions []Position

	Num    int
	Tracks int
	Bins   int
}

// A SuperDataset materializes large fixed-size blocks of
// paired (sequence, signal) rows into persistent buffers.
//
// It is the fetch layer beneath Dataset, and can be used on
// its own when whole blocks are wanted.
type SuperDataset struct {
	cfg  Config
	plan EpochPlan
	bins int

	collection Collection

	seqs   anyvec.Vector
	signal anyvec.Vector
	chroms []string
	starts []int
	ends   []int
}

// NewSuperDataset creates a SuperDataset, filling in the
// defaults documented on Config and validating the result.
//
// A super batch smaller than a batch produces
// ErrSuperBatchSize. A missing sequence source or track
// collection produces ErrNoSequences or ErrNoCollection.
func NewSuperDataset(cfg Config) (*SuperDataset, error) {
	conf := cfg.withDefaults()
	if err := conf.validate(); err != nil {
		return nil, err
	}
	plan, err := PlanEpochs(totalBases(conf.Regions), conf.SequenceLength,
		conf.BatchSize, conf.SuperBatchSize, conf.BatchesPerEpoch)
	if err != nil {
		return nil, err
	}
	return &SuperDataset{
		cfg:  conf,
		plan: plan,
		bins: conf.CenterBinToPredict / conf.WindowSize,
	}, nil
}

// Plan returns the dataset's epoch arithmetic.
func (s *SuperDataset) Plan() EpochPlan {
	return s.plan
}

// Collection returns the dataset's track collection,
// opening the configured track paths the first time it is
// needed.
func (s *SuperDataset) Collection() (Collection, error) {
	if s.collection != nil {
		return s.collection, nil
	}
	if s.cfg.Collection != nil {
		s.collection = s.cfg.Collection
		return s.collection, nil
	}
	files, err := ResolveTrackPaths(s.cfg.CollectionPaths, s.cfg.FileExtensions,
		!s.cfg.DisableCrawl, s.cfg.FirstN)
	if err != nil {
		return nil, err
	}
	tracks := make([]Track, len(files))
	for i, f := range files {
		track, err := s.cfg.Opener(f, !s.cfg.DisableDirectIO)
		if err != nil {
			return nil, essentials.AddCtx("open collection", err)
		}
		tracks[i] = track
	}
	s.collection = NewTrackCollection(tracks, s.cfg.Scale)
	return s.collection, nil
}

// Fetch fills the dataset's persistent buffers with
// SuperBatchSize fresh rows and returns them.
//
// The returned batch shares storage with every batch
// returned before it.
func (s *SuperDataset) Fetch() (*SuperBatch, error) {
	coll, err := s.Collection()
	if err != nil {
		return nil, err
	}
	n := s.plan.SuperBatchSize
	if s.seqs == nil {
		s.seqs = s.cfg.Creator.MakeVector(n * s.cfg.Sequences.EncodedLen())
		s.signal = s.cfg.Creator.MakeVector(n * coll.Len() * s.bins)
		s.chroms = make([]string, n)
		s.starts = make([]int, n)
		s.ends = make([]int, n)
	}
	positions, err := s.cfg.Sequences.FetchInto(s.seqs, n)
	if err != nil {
		return nil, essentials.AddCtx("fetch super batch", err)
	}
	if len(positions) != n {
		return nil, fmt.Errorf("fetch super batch: got %d positions, expected %d",
			len(positions), n)
	}
	for i, p := range positions {
		start := p.Center - s.cfg.CenterBinToPredict/2
		s.chroms[i] = p.Chrom
		s.starts[i] = start
		s.ends[i] = start + s.bins*s.cfg.WindowSize
	}
	err = coll.FetchInto(s.signal, s.chroms, s.starts, s.ends, s.cfg.WindowSize)
	if err != nil {
		return nil, essentials.AddCtx("fetch super batch", err)
	}
	if s.cfg.Smoother != nil {
		if out := s.cfg.Smoother.Smooth(s.signal, s.bins); out != s.signal {
			s.signal.Set(out)
		}
	}
	return &SuperBatch{
		Sequences: s.seqs,
		Signal:    s.signal,
		Positions: positions,
		Num:       n,
		Tracks:    coll.Len(),
		Bins:      s.bins,
	}, nil
}

// Reset releases resources held by the track collection, if
// it has been opened yet. It is idempotent and safe to call
// between epochs.
func (s *SuperDataset) Reset() error {
	if s.collection == nil {
		return nil
	}
	return s.collection.Reset()
}
