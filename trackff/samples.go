package trackff

import (
	"github.com/unixpickle/anynet/anysgd"
	"github.com/unixpickle/trackfeed"
)

// Samples returns a placeholder sample list sized to one
// epoch of the plan, giving anysgd the batch cadence of the
// dataset.
//
// The list carries no sample data, since row selection
// happens inside the dataset. Shuffling it has no effect.
func Samples(plan trackfeed.EpochPlan) anysgd.SampleList {
	return sampleList(plan.BatchesPerEpoch * plan.BatchSize)
}

type sampleList int

func (s sampleList) Len() int {
	return int(s)
}

func (s sampleList) Swap(i, j int) {
}

func (s sampleList) Slice(i, j int) anysgd.SampleList {
	return sampleList(j - i)
}
