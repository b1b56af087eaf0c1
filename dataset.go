package trackfeed

import "github.com/unixpickle/anyvec"

// A Dataset streams fixed-size batches of paired training
// rows, slicing each fetched super-batch into consecutive
// batches and fetching again when it runs out.
type Dataset struct {
	super *SuperDataset
}

// NewDataset creates a Dataset for the configuration.
// See NewSuperDataset for the configuration errors.
func NewDataset(cfg Config) (*Dataset, error) {
	super, err := NewSuperDataset(cfg)
	if err != nil {
		return nil, err
	}
	return &Dataset{super: super}, nil
}

// Super returns the dataset's fetch layer.
func (d *Dataset) Super() *SuperDataset {
	return d.super
}

// Plan returns the dataset's epoch arithmetic.
func (d *Dataset) Plan() EpochPlan {
	return d.super.Plan()
}

// Epoch starts a new pass over the dataset.
//
// Epochs share the dataset's buffers, so only one should be
// consumed at a time. Abandoning an epoch before it ends is
// safe.
func (d *Dataset) Epoch() *Epoch {
	return &Epoch{super: d.super}
}

// Reset releases resources held by the dataset. See
// SuperDataset.Reset.
func (d *Dataset) Reset() error {
	return d.super.Reset()
}

// A Batch is one training batch of paired rows.
type Batch struct {
	// Sequences holds Num rows of encoded sequence.
	Sequences anyvec.Vector

	// Signal holds Num rows of binned signal values,
	// grouped by track within each row.
	Signal anyvec.Vector

	// Num is the number of rows.
	Num int
}

// An Epoch iterates over the batches of one pass, in the
// manner of bufio.Scanner:
//
//	ep := dataset.Epoch()
//	for ep.Next() {
//		batch := ep.Batch()
//		// use batch
//	}
//	if err := ep.Err(); err != nil {
//		// handle fetch failure
//	}
type Epoch struct {
	super   *SuperDataset
	cur     *SuperBatch
	offset  int
	emitted int
	batch   *Batch
	err     error
}

// Next advances to the next batch. It fetches a new
// super-batch before the first batch and whenever fewer
// than a full batch of rows remain, dropping the leftover
// rows.
//
// Next returns false once the epoch's batches are used up,
// and after a fetch fails.
func (e *Epoch) Next() bool {
	if e.err != nil || e.emitted >= e.super.plan.BatchesPerEpoch {
		return false
	}
	size := e.super.plan.BatchSize
	if e.cur == nil || e.offset+size > e.cur.Num {
		sb, err := e.super.Fetch()
		if err != nil {
			e.err = err
			return false
		}
		e.cur = sb
		e.offset = 0
	}
	seqRow := e.cur.Sequences.Len() / e.cur.Num
	sigRow := e.cur.Signal.Len() / e.cur.Num
	e.batch = &Batch{
		Sequences: e.cur.Sequences.Slice(e.offset*seqRow, (e.offset+size)*seqRow),
		Signal:    e.cur.Signal.Slice(e.offset*sigRow, (e.offset+size)*sigRow),
		Num:       size,
	}
	e.offset += size
	e.emitted++
	return true
}

// Batch returns the batch from the last successful call to
// Next. Its vectors are sliced copies, so they stay valid
// as iteration continues.
func (e *Epoch) Batch() *Batch {
	return e.batch
}

// Err returns the first fetch error encountered by Next,
// if any.
func (e *Epoch) Err() error {
	return e.err
}
