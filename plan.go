package trackfeed

// An EpochPlan is the batch arithmetic for one pass over a
// dataset: how many batches the pass yields, and how many
// rows each level of batching materializes.
type EpochPlan struct {
	// BatchSize is the number of rows per training batch.
	BatchSize int

	// SuperBatchSize is the number of rows materialized by
	// one fetch.
	SuperBatchSize int

	// BatchesPerEpoch is the number of batches per epoch.
	BatchesPerEpoch int

	// SuperBatchesPerEpoch is the minimum number of fetches
	// needed for an epoch's batches. An epoch may fetch
	// more than this when SuperBatchSize is not a multiple
	// of BatchSize, since leftover rows are dropped at each
	// refill.
	SuperBatchesPerEpoch int
}

// PlanEpochs computes the batch arithmetic for epochs over
// totalBases of sampleable sequence.
//
// If override is positive, it is used verbatim as the
// number of batches per epoch. Otherwise the number of
// batches is totalBases/seqLen/batchSize, rounding down
// after each division, which may be zero.
//
// If superBatchSize is less than batchSize, the error is
// ErrSuperBatchSize.
func PlanEpochs(totalBases, seqLen, batchSize, superBatchSize, override int) (EpochPlan, error) {
	if seqLen < 1 || batchSize < 1 || superBatchSize < 1 {
		panic("non-positive size")
	}
	if superBatchSize < batchSize {
		return EpochPlan{}, ErrSuperBatchSize
	}
	batches := override
	if batches <= 0 {
		batches = totalBases / seqLen / batchSize
	}
	if batches < 0 {
		batches = 0
	}
	supers := (batchSize*batches + superBatchSize - 1) / superBatchSize
	return EpochPlan{
		BatchSize:            batchSize,
		SuperBatchSize:       superBatchSize,
		BatchesPerEpoch:      batches,
		SuperBatchesPerEpoch: supers,
	}, nil
}
