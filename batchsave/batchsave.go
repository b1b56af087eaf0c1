// Package batchsave stores fetched batches with the
// serializer package, so materialized data can be cached
// between runs or kept around as debugging fixtures.
package batchsave

import (
	"github.com/unixpickle/anyvec"
	"github.com/unixpickle/anyvec/anyvecsave"
	"github.com/unixpickle/essentials"
	"github.com/unixpickle/serializer"
	"github.com/unixpickle/trackfeed"
)

func init() {
	var s S
	serializer.RegisterTypedDeserializer(s.SerializerType(), DeserializeS)
}

// S holds one batch's buffers together with the row
// metadata needed to reinterpret them.
type S struct {
	// Sequences holds Num rows of encoded sequence.
	Sequences anyvec.Vector

	// Signal holds Num rows of Tracks*Bins binned values.
	Signal anyvec.Vector

	Num    int
	Tracks int
	Bins   int
}

// FromSuperBatch snapshots a fetched super-batch. The
// buffers are copied, since the dataset overwrites its
// storage on the next fetch.
func FromSuperBatch(sb *trackfeed.SuperBatch) *S {
	return &S{
		Sequences: sb.Sequences.Copy(),
		Signal:    sb.Signal.Copy(),
		Num:       sb.Num,
		Tracks:    sb.Tracks,
		Bins:      sb.Bins,
	}
}

// DeserializeS deserializes an S.
func DeserializeS(d []byte) (*S, error) {
	var seqs, signal *anyvecsave.S
	var num, tracks, bins serializer.Int
	err := serializer.DeserializeAny(d, &seqs, &signal, &num, &tracks, &bins)
	if err != nil {
		return nil, essentials.AddCtx("deserialize batch", err)
	}
	return &S{
		Sequences: seqs.Vector,
		Signal:    signal.Vector,
		Num:       int(num),
		Tracks:    int(tracks),
		Bins:      int(bins),
	}, nil
}

// SerializerType returns the unique ID used to serialize
// an S with the serializer package.
func (s *S) SerializerType() string {
	return "github.com/unixpickle/trackfeed/batchsave.S"
}

// Serialize serializes the S.
func (s *S) Serialize() ([]byte, error) {
	return serializer.SerializeAny(
		&anyvecsave.S{Vector: s.Sequences},
		&anyvecsave.S{Vector: s.Signal},
		serializer.Int(s.Num),
		serializer.Int(s.Tracks),
		serializer.Int(s.Bins),
	)
}
