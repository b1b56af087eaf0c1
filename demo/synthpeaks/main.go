// Command synthpeaks trains a small model to predict GC
// density from raw sequence, using a genome and a signal
// track synthesized on the fly.
package main

import (
	"flag"
	"log"
	"math/rand"

	"github.com/unixpickle/anynet"
	"github.com/unixpickle/anynet/anysgd"
	"github.com/unixpickle/anyvec/anyvec32"
	"github.com/unixpickle/rip"
	"github.com/unixpickle/trackfeed"
	"github.com/unixpickle/trackfeed/genome"
	"github.com/unixpickle/trackfeed/trackff"
)

const (
	chromName  = "synth1"
	chromLen   = 200000
	seqLen     = 200
	windowSize = 20
	numBins    = seqLen / windowSize
)

func main() {
	var stepSize float64
	var batchSize int
	var superBatch int
	flag.Float64Var(&stepSize, "step", 0.001, "SGD step size")
	flag.IntVar(&batchSize, "batch", 16, "rows per batch")
	flag.IntVar(&superBatch, "super", 64, "rows per fetch")
	flag.Parse()

	log.Println("Setting up...")

	rng := rand.New(rand.NewSource(1))
	bases := []byte("ACGT")
	seq := make([]byte, chromLen)
	gc := make([]float64, chromLen)
	for i := range seq {
		seq[i] = bases[rng.Intn(len(bases))]
		if seq[i] == 'G' || seq[i] == 'C' {
			gc[i] = 1
		}
	}
	track := &trackfeed.MemTrack{
		Name: "gc",
		Data: map[string][]float64{chromName: gc},
	}
	regions := []trackfeed.Region{{Chrom: chromName, Start: 0, End: chromLen}}

	creator := anyvec32.CurrentCreator()
	gen, err := genome.NewFromSequences(map[string][]byte{chromName: seq},
		genome.Config{
			Regions:        regions,
			SequenceLength: seqLen,
			Rand:           rng,
		})
	if err != nil {
		log.Fatal(err)
	}
	dataset, err := trackfeed.NewDataset(trackfeed.Config{
		Sequences:      gen,
		Collection:     trackfeed.NewTrackCollection([]trackfeed.Track{track}, nil),
		Regions:        regions,
		SequenceLength: seqLen,
		WindowSize:     windowSize,
		BatchSize:      batchSize,
		SuperBatchSize: superBatch,
		Creator:        creator,
	})
	if err != nil {
		log.Fatal(err)
	}

	network := anynet.Net{
		anynet.NewFC(creator, seqLen*4, 64),
		anynet.Tanh,
		anynet.NewFC(creator, 64, numBins),
	}
	t := &trackff.Trainer{
		Net:     network,
		Cost:    anynet.MSE{},
		Params:  network.Parameters(),
		Average: true,
	}

	var iterNum int
	s := &anysgd.SGD{
		Fetcher:     &trackff.Feed{Dataset: dataset, Creator: creator},
		Gradienter:  t,
		Transformer: &anysgd.Adam{},
		Samples:     trackff.Samples(dataset.Plan()),
		Rater:       anysgd.ConstRater(stepSize),
		StatusFunc: func(b anysgd.Batch) {
			log.Printf("iter %d: cost=%v", iterNum, t.LastCost)
			iterNum++
		},
		BatchSize: batchSize,
	}

	log.Println("Press ctrl+c once to stop...")
	s.Run(rip.NewRIP().Chan())
}
