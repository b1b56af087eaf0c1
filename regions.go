package trackfeed

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/unixpickle/essentials"
)

// A Region is a half-open interval [Start, End) of a
// chromosome that training windows may be sampled from.
type Region struct {
	Chrom string
	Start int
	End   int
}

// Len returns the number of bases in the region.
func (r Region) Len() int {
	return r.End - r.Start
}

// A Position is the center of a sampled training window.
type Position struct {
	Chrom  string
	Center int
}

// ReadRegions reads a region table from a tab or space
// delimited file, such as a BED file. Each data line has a
// chromosome name followed by start and end coordinates.
//
// Blank lines, comments starting with "#", "track" and
// "browser" lines, and a leading header line are skipped.
// Gzipped files are detected by their magic number and
// decompressed transparently.
func ReadRegions(path string) ([]Region, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, essentials.AddCtx("read regions", err)
	}
	defer f.Close()

	r, err := gzipReader(bufio.NewReader(f))
	if err != nil {
		return nil, essentials.AddCtx("read regions "+path, err)
	}

	var regions []Region
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNum := 0
	first := true
	for sc.Scan() {
		lineNum++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") ||
			strings.HasPrefix(line, "track") ||
			strings.HasPrefix(line, "browser") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			return nil, fmt.Errorf("read regions %s: line %d: "+
				"expected chromosome, start and end", path, lineNum)
		}
		start, err1 := strconv.Atoi(fields[1])
		end, err2 := strconv.Atoi(fields[2])
		if err1 != nil || err2 != nil {
			// A single unparseable leading line is a header.
			if first {
				first = false
				continue
			}
			return nil, fmt.Errorf("read regions %s: line %d: invalid coordinates",
				path, lineNum)
		}
		first = false
		if end <= start {
			return nil, fmt.Errorf("read regions %s: line %d: end is not after start",
				path, lineNum)
		}
		regions = append(regions, Region{Chrom: fields[0], Start: start, End: end})
	}
	if err := sc.Err(); err != nil {
		return nil, essentials.AddCtx("read regions "+path, err)
	}
	return regions, nil
}

func totalBases(regions []Region) int {
	var total int
	for _, r := range regions {
		total += r.Len()
	}
	return total
}
