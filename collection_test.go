package trackfeed

import (
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/unixpickle/anyvec/anyvec64"
)

func TestTrackCollectionFetch(t *testing.T) {
	t1 := &MemTrack{Name: "/data/one.bw", Data: map[string][]float64{
		"chr1": {0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
	}}
	t2 := &MemTrack{Name: "/data/two.bw", Data: map[string][]float64{
		"chr1": {10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
	}}
	coll := NewTrackCollection([]Track{t1, t2}, map[string]float64{"two": 0.5})
	if coll.Len() != 2 {
		t.Fatalf("track count should be 2 but got %d", coll.Len())
	}

	c := anyvec64.CurrentCreator()
	out := c.MakeVector(2 * 2 * 2)
	err := coll.FetchInto(out, []string{"chr1", "chr1"}, []int{0, 4},
		[]int{4, 8}, 2)
	if err != nil {
		t.Fatal(err)
	}
	expected := []float64{
		0.5, 2.5, 7.5, 17.5,
		4.5, 6.5, 27.5, 37.5,
	}
	actual := out.Data().([]float64)
	for i, x := range expected {
		if math.Abs(actual[i]-x) > 1e-9 {
			t.Errorf("value %d: should be %f but got %f", i, x, actual[i])
		}
	}
}

func TestTrackCollectionShortTrack(t *testing.T) {
	track := &MemTrack{Name: "t.bw", Data: map[string][]float64{"chr1": {1, 1}}}
	coll := NewTrackCollection([]Track{track}, nil)
	c := anyvec64.CurrentCreator()
	out := c.MakeVector(4)
	if err := coll.FetchInto(out, []string{"chr1"}, []int{0}, []int{4}, 1); err != nil {
		t.Fatal(err)
	}
	expected := []float64{1, 1, 0, 0}
	actual := out.Data().([]float64)
	for i, x := range expected {
		if actual[i] != x {
			t.Errorf("value %d: should be %f but got %f", i, x, actual[i])
		}
	}
}

func TestTrackCollectionUnknownChrom(t *testing.T) {
	track := &MemTrack{Name: "t.bw", Data: map[string][]float64{"chr1": {1, 1}}}
	coll := NewTrackCollection([]Track{track}, nil)
	c := anyvec64.CurrentCreator()
	err := coll.FetchInto(c.MakeVector(2), []string{"chrX"}, []int{0}, []int{2}, 1)
	if err == nil || !strings.Contains(err.Error(), "chrX") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestTrackCollectionReset(t *testing.T) {
	track := &MemTrack{Name: "t.bw", Data: map[string][]float64{"chr1": {2, 4}}}
	coll := NewTrackCollection([]Track{track}, nil)
	c := anyvec64.CurrentCreator()
	for i := 0; i < 2; i++ {
		out := c.MakeVector(1)
		err := coll.FetchInto(out, []string{"chr1"}, []int{0}, []int{2}, 2)
		if err != nil {
			t.Fatal(err)
		}
		if v := out.Data().([]float64)[0]; v != 3 {
			t.Errorf("value should be 3 but got %f", v)
		}
		if err := coll.Reset(); err != nil {
			t.Fatal(err)
		}
	}
}

func TestResolveTrackPaths(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	deep := filepath.Join(sub, "deep")
	if err := os.MkdirAll(deep, 0755); err != nil {
		t.Fatal(err)
	}
	names := []string{"b.bw", "a.bigwig", "skip.txt", "sub/c.bw", "sub/deep/d.BW"}
	for _, name := range names {
		err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644)
		if err != nil {
			t.Fatal(err)
		}
	}

	checkResolved := func(label string, files []string, expected []string) {
		t.Helper()
		var bases []string
		for _, f := range files {
			bases = append(bases, filepath.Base(f))
		}
		if !reflect.DeepEqual(bases, expected) {
			t.Errorf("%s: should resolve %v but got %v", label, expected, bases)
		}
	}

	files, err := ResolveTrackPaths([]string{dir}, DefaultFileExtensions, true, 0)
	if err != nil {
		t.Fatal(err)
	}
	checkResolved("crawl", files, []string{"a.bigwig", "b.bw", "c.bw", "d.BW"})

	files, err = ResolveTrackPaths([]string{dir}, DefaultFileExtensions, false, 0)
	if err != nil {
		t.Fatal(err)
	}
	checkResolved("flat", files, []string{"a.bigwig", "b.bw"})

	files, err = ResolveTrackPaths([]string{dir}, DefaultFileExtensions, true, 3)
	if err != nil {
		t.Fatal(err)
	}
	checkResolved("first 3", files, []string{"a.bigwig", "b.bw", "c.bw"})

	single := filepath.Join(dir, "b.bw")
	files, err = ResolveTrackPaths([]string{single}, DefaultFileExtensions, true, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(files, []string{single}) {
		t.Errorf("explicit file: should resolve %v but got %v", []string{single},
			files)
	}
}

func TestResolveTrackPathsErrors(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "skip.txt"), []byte("x"), 0644)
	if err != nil {
		t.Fatal(err)
	}

	_, err = ResolveTrackPaths([]string{filepath.Join(dir, "skip.txt")},
		DefaultFileExtensions, true, 0)
	if err == nil || !strings.Contains(err.Error(), "extension") {
		t.Errorf("unexpected error: %v", err)
	}

	_, err = ResolveTrackPaths([]string{dir}, DefaultFileExtensions, true, 0)
	if err == nil || !strings.Contains(err.Error(), "no track files") {
		t.Errorf("unexpected error: %v", err)
	}

	_, err = ResolveTrackPaths([]string{filepath.Join(dir, "missing")},
		DefaultFileExtensions, true, 0)
	if err == nil {
		t.Error("a missing path should fail")
	}
}

func TestScaleKeys(t *testing.T) {
	scale := map[string]float64{
		"/data/exact.bw": 2,
		"name.bw":        3,
		"stem":           4,
	}
	cases := []struct {
		Path  string
		Scale float64
	}{
		{"/data/exact.bw", 2},
		{"/other/name.bw", 3},
		{"/other/stem.bw", 4},
		{"/other/none.bw", 1},
	}
	for _, c := range cases {
		if v := scaleFor(c.Path, scale); v != c.Scale {
			t.Errorf("%s: scale should be %f but got %f", c.Path, c.Scale, v)
		}
	}
}
