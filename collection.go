package trackfeed

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/unixpickle/anyvec"
	"github.com/unixpickle/essentials"
)

// A TrackCollection is the default Collection: it reads
// windows from an ordered list of tracks, averages values
// into bins, and applies per-track scale factors.
//
// Reads go through a host staging buffer that is reused
// between fetches and released by Reset.
type TrackCollection struct {
	tracks []Track
	scales []float64

	staging []float64
	raw     []float64
}

// NewTrackCollection creates a collection from open tracks.
//
// Scale keys are matched like Config.Scale keys. Tracks
// without a match keep their values unscaled.
func NewTrackCollection(tracks []Track, scale map[string]float64) *TrackCollection {
	scales := make([]float64, len(tracks))
	for i, t := range tracks {
		scales[i] = scaleFor(t.Path(), scale)
	}
	return &TrackCollection{tracks: tracks, scales: scales}
}

// Len returns the number of tracks.
func (t *TrackCollection) Len() int {
	return len(t.tracks)
}

// Tracks returns the collection's tracks in order.
func (t *TrackCollection) Tracks() []Track {
	return t.tracks
}

// FetchInto reads every window from every track.
//
// The windows must all have the same length, a multiple of
// windowSize, and out must have one component per bin,
// window and track.
func (t *TrackCollection) FetchInto(out anyvec.Vector, chroms []string,
	starts, ends []int, windowSize int) error {
	n := len(chroms)
	if n == 0 {
		return nil
	}
	width := ends[0] - starts[0]
	if windowSize < 1 || width <= 0 || width%windowSize != 0 {
		panic("window length must be a positive multiple of the bin size")
	}
	bins := width / windowSize
	if out.Len() != n*len(t.tracks)*bins {
		panic("incorrect output size")
	}
	if len(t.staging) != out.Len() {
		t.staging = make([]float64, out.Len())
	}
	if len(t.raw) != width {
		t.raw = make([]float64, width)
	}
	for i := 0; i < n; i++ {
		if ends[i]-starts[i] != width {
			panic("window lengths must match")
		}
		for j, track := range t.tracks {
			if err := track.Values(chroms[i], starts[i], ends[i], t.raw); err != nil {
				return essentials.AddCtx("fetch windows", err)
			}
			row := t.staging[(i*len(t.tracks)+j)*bins:][:bins]
			scale := t.scales[j] / float64(windowSize)
			for b := range row {
				var sum float64
				for _, v := range t.raw[b*windowSize : (b+1)*windowSize] {
					sum += v
				}
				row[b] = sum * scale
			}
		}
	}
	out.SetData(out.Creator().MakeNumericList(t.staging))
	return nil
}

// Reset drops the collection's staging buffers. The next
// fetch reallocates them.
func (t *TrackCollection) Reset() error {
	t.staging = nil
	t.raw = nil
	return nil
}

func scaleFor(path string, scale map[string]float64) float64 {
	if v, ok := scale[path]; ok {
		return v
	}
	base := filepath.Base(path)
	if v, ok := scale[base]; ok {
		return v
	}
	if v, ok := scale[strings.TrimSuffix(base, filepath.Ext(base))]; ok {
		return v
	}
	return 1
}

// ResolveTrackPaths expands a mixed list of track files and
// directories into a sorted list of track files.
//
// Directories are searched for files with one of the given
// extensions, compared case-insensitively; crawl extends
// the search to subdirectories. Files named directly must
// match the filter too. If firstN is positive, only the
// first firstN files after sorting are kept.
func ResolveTrackPaths(paths, extensions []string, crawl bool, firstN int) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, essentials.AddCtx("resolve tracks", err)
		}
		if !info.IsDir() {
			if !matchExt(p, extensions) {
				return nil, fmt.Errorf("resolve tracks: %s: extension is not one of %s",
					p, strings.Join(extensions, " "))
			}
			files = append(files, p)
			continue
		}
		if crawl {
			err := filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if !d.IsDir() && matchExt(path, extensions) {
					files = append(files, path)
				}
				return nil
			})
			if err != nil {
				return nil, essentials.AddCtx("resolve tracks", err)
			}
		} else {
			entries, err := os.ReadDir(p)
			if err != nil {
				return nil, essentials.AddCtx("resolve tracks", err)
			}
			for _, e := range entries {
				if !e.IsDir() && matchExt(e.Name(), extensions) {
					files = append(files, filepath.Join(p, e.Name()))
				}
			}
		}
	}
	sort.Strings(files)
	if firstN > 0 && firstN < len(files) {
		files = files[:firstN]
	}
	if len(files) == 0 {
		return nil, errors.New("resolve tracks: no track files found")
	}
	return files, nil
}

func matchExt(path string, extensions []string) bool {
	ext := filepath.Ext(path)
	for _, e := range extensions {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}
