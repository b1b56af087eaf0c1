package trackfeed

import (
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/unixpickle/anyvec"
)

func TestSuperDatasetReuse(t *testing.T) {
	seqs := &testSeqSource{encLen: 3}
	coll := &testCollection{tracks: 2}
	sd, err := NewSuperDataset(testConfig(seqs, coll))
	if err != nil {
		t.Fatal(err)
	}
	sb1, err := sd.Fetch()
	if err != nil {
		t.Fatal(err)
	}
	if sb1.Num != 8 || sb1.Tracks != 2 || sb1.Bins != 2 {
		t.Fatalf("unexpected dimensions %d, %d and %d", sb1.Num, sb1.Tracks,
			sb1.Bins)
	}
	if sb1.Sequences.Len() != 8*3 || sb1.Signal.Len() != 8*2*2 {
		t.Fatalf("unexpected lengths %d and %d", sb1.Sequences.Len(),
			sb1.Signal.Len())
	}
	sb2, err := sd.Fetch()
	if err != nil {
		t.Fatal(err)
	}
	if sb1.Sequences != sb2.Sequences || sb1.Signal != sb2.Signal {
		t.Error("fetches should reuse the same buffers")
	}
	if seqs.fetches != 2 || coll.fetches != 2 {
		t.Errorf("fetch counts should be 2 but got %d and %d", seqs.fetches,
			coll.fetches)
	}
}

func TestSuperDatasetWindows(t *testing.T) {
	seqs := &testSeqSource{encLen: 3}
	coll := &testCollection{tracks: 2}
	sd, err := NewSuperDataset(testConfig(seqs, coll))
	if err != nil {
		t.Fatal(err)
	}
	sb, err := sd.Fetch()
	if err != nil {
		t.Fatal(err)
	}
	for i, p := range sb.Positions {
		if coll.lastChroms[i] != p.Chrom {
			t.Errorf("window %d: chromosome should be %s but got %s", i, p.Chrom,
				coll.lastChroms[i])
		}
		if coll.lastStarts[i] != p.Center-5 || coll.lastEnds[i] != p.Center+5 {
			t.Errorf("window %d: should be [%d, %d) but got [%d, %d)", i,
				p.Center-5, p.Center+5, coll.lastStarts[i], coll.lastEnds[i])
		}
	}
}

func TestSuperDatasetOddWindows(t *testing.T) {
	seqs := &testSeqSource{encLen: 3}
	coll := &testCollection{tracks: 2}
	cfg := testConfig(seqs, coll)
	cfg.WindowSize = 3
	sd, err := NewSuperDataset(cfg)
	if err != nil {
		t.Fatal(err)
	}
	sb, err := sd.Fetch()
	if err != nil {
		t.Fatal(err)
	}
	// 10 center bases round down to three windows of 3.
	if sb.Bins != 3 {
		t.Errorf("bin count should be 3 but got %d", sb.Bins)
	}
	for i := range coll.lastStarts {
		if coll.lastEnds[i]-coll.lastStarts[i] != 9 {
			t.Errorf("window %d: width should be 9 but got %d", i,
				coll.lastEnds[i]-coll.lastStarts[i])
		}
	}
}

func TestSuperDatasetSmoothing(t *testing.T) {
	seqs := &testSeqSource{encLen: 3}
	coll := &testCollection{tracks: 2}
	cfg := testConfig(seqs, coll)
	cfg.MovingAverageWindowSize = 3
	sd, err := NewSuperDataset(cfg)
	if err != nil {
		t.Fatal(err)
	}
	sb, err := sd.Fetch()
	if err != nil {
		t.Fatal(err)
	}

	raw := make([]float64, sb.Num*sb.Tracks*sb.Bins)
	for i, p := range sb.Positions {
		for j := 0; j < sb.Tracks*sb.Bins; j++ {
			raw[i*sb.Tracks*sb.Bins+j] = float64(p.Center - 5)
		}
	}
	expected := slowMovingAverage(raw, 3, sb.Bins)
	actual := sb.Signal.Data().([]float32)
	for i, x := range expected {
		if math.Abs(float64(actual[i])-x) > 1e-3 {
			t.Errorf("value %d: should be %f but got %f", i, x, actual[i])
		}
	}

	// Smoothing must not break buffer reuse.
	sb2, err := sd.Fetch()
	if err != nil {
		t.Fatal(err)
	}
	if sb2.Signal != sb.Signal {
		t.Error("fetches should reuse the same signal buffer")
	}
}

func TestSuperDatasetLazyResolve(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"b.bw", "a.bw", "notes.txt", "sub/c.bigWig"} {
		err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644)
		if err != nil {
			t.Fatal(err)
		}
	}

	var opened []string
	cfg := testConfig(&testSeqSource{encLen: 3}, nil)
	cfg.Collection = nil
	cfg.CollectionPaths = []string{dir}
	cfg.Opener = func(path string, directIO bool) (Track, error) {
		opened = append(opened, filepath.Base(path))
		return &MemTrack{
			Name: path,
			Data: map[string][]float64{"chr1": make([]float64, 3000)},
		}, nil
	}
	sd, err := NewSuperDataset(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(opened) != 0 {
		t.Fatal("tracks should not open before the first fetch")
	}

	sb, err := sd.Fetch()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(opened, []string{"a.bw", "b.bw", "c.bigWig"}) {
		t.Errorf("unexpected open order: %v", opened)
	}
	if sb.Tracks != 3 {
		t.Errorf("track count should be 3 but got %d", sb.Tracks)
	}

	opened = nil
	if _, err := sd.Fetch(); err != nil {
		t.Fatal(err)
	}
	if len(opened) != 0 {
		t.Errorf("tracks should open once, but %v opened again", opened)
	}
}

func TestSuperDatasetResolveError(t *testing.T) {
	cfg := testConfig(&testSeqSource{encLen: 3}, nil)
	cfg.Collection = nil
	cfg.CollectionPaths = []string{filepath.Join(t.TempDir(), "missing")}
	sd, err := NewSuperDataset(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := sd.Fetch(); err == nil {
		t.Error("fetching from a missing path should fail")
	}
}

func TestSuperDatasetShortFetch(t *testing.T) {
	seqs := &shortSeqSource{testSeqSource{encLen: 3}}
	coll := &testCollection{tracks: 2}
	cfg := testConfig(&seqs.testSeqSource, coll)
	cfg.Sequences = seqs
	sd, err := NewSuperDataset(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := sd.Fetch(); err == nil {
		t.Error("a short position list should fail")
	}
}

func TestSuperDatasetReset(t *testing.T) {
	seqs := &testSeqSource{encLen: 3}
	coll := &testCollection{tracks: 2}
	sd, err := NewSuperDataset(testConfig(seqs, coll))
	if err != nil {
		t.Fatal(err)
	}
	if err := sd.Reset(); err != nil {
		t.Fatal(err)
	}
	if coll.resets != 0 {
		t.Error("reset should do nothing before the collection is used")
	}
	if _, err := sd.Fetch(); err != nil {
		t.Fatal(err)
	}
	for i := 1; i <= 2; i++ {
		if err := sd.Reset(); err != nil {
			t.Fatal(err)
		}
		if coll.resets != i {
			t.Errorf("reset count should be %d but got %d", i, coll.resets)
		}
	}
}

// A shortSeqSource mimics a source that cannot fill the
// whole request.
type shortSeqSource struct {
	testSeqSource
}

func (s *shortSeqSource) FetchInto(out anyvec.Vector, n int) ([]Position, error) {
	positions, err := s.testSeqSource.FetchInto(out, n)
	if err != nil {
		return nil, err
	}
	return positions[:n-1], nil
}
