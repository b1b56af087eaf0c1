// Package trackff connects trackfeed datasets to anynet
// feed-forward training.
package trackff

import (
	"errors"
	"fmt"

	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anynet/anysgd"
	"github.com/unixpickle/anyvec"
	"github.com/unixpickle/essentials"
	"github.com/unixpickle/trackfeed"
)

// A Batch stores a batch of encoded sequence windows and
// the signal values a model should predict for them.
type Batch struct {
	Sequences *anydiff.Const
	Signal    *anydiff.Const
	Num       int
}

// A Feed is an anysgd.Fetcher that materializes batches
// from a Dataset, starting a new epoch whenever the current
// one runs out.
type Feed struct {
	Dataset *trackfeed.Dataset

	// Creator, if non-nil, is the creator that batches
	// should be converted to. Vectors already under it are
	// attached without copying.
	Creator anyvec.Creator

	epoch *trackfeed.Epoch
}

// Fetch produces a *Batch with the dataset's next rows.
//
// The sample list argument is not consulted: row selection
// happens inside the dataset's own sampler.
func (f *Feed) Fetch(s anysgd.SampleList) (anysgd.Batch, error) {
	if f.Dataset.Plan().BatchesPerEpoch == 0 {
		return nil, errors.New("fetch batch: dataset has no batches")
	}
	for {
		if f.epoch == nil {
			f.epoch = f.Dataset.Epoch()
		}
		if f.epoch.Next() {
			b := f.epoch.Batch()
			return &Batch{
				Sequences: anydiff.NewConst(f.convert(b.Sequences)),
				Signal:    anydiff.NewConst(f.convert(b.Signal)),
				Num:       b.Num,
			}, nil
		}
		err := f.epoch.Err()
		f.epoch = nil
		if err != nil {
			return nil, essentials.AddCtx("fetch batch", err)
		}
	}
}

func (f *Feed) convert(v anyvec.Vector) anyvec.Vector {
	if f.Creator == nil || v.Creator() == f.Creator {
		return v
	}
	switch d := v.Data().(type) {
	case []float64:
		return f.Creator.MakeVectorData(f.Creator.MakeNumericList(d))
	case []float32:
		s := make([]float64, len(d))
		for i, x := range d {
			s[i] = float64(x)
		}
		return f.Creator.MakeVectorData(f.Creator.MakeNumericList(s))
	default:
		panic(fmt.Sprintf("unsupported numeric type: %T", d))
	}
}
