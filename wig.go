package trackfeed

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/unixpickle/essentials"
)

// OpenTrack is the default TrackOpener. It reads plain or
// gzipped wiggle and bedGraph text files fully into memory
// with ReadWig.
//
// Binary BigWig files are recognized but not decoded; a
// Config.Opener wrapping a binary reader is needed for
// them. The directIO flag has no effect on in-memory
// tracks.
func OpenTrack(path string, directIO bool) (Track, error) {
	return ReadWig(path)
}

// ReadWig reads a wiggle or bedGraph text file, plain or
// gzipped, into a MemTrack named after the path.
//
// Both fixedStep and variableStep declarations are
// supported, including their 1-based start coordinates and
// optional spans. bedGraph data lines have the form
// "chrom start end value" with 0-based half-open intervals.
func ReadWig(path string) (*MemTrack, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, essentials.AddCtx("read track", err)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	if magic, err := br.Peek(4); err == nil && isBigWigMagic(magic) {
		return nil, fmt.Errorf("read track %s: binary BigWig data needs "+
			"a dedicated opener", path)
	}
	r, err := gzipReader(br)
	if err != nil {
		return nil, essentials.AddCtx("read track "+path, err)
	}

	track := &MemTrack{Name: path, Data: map[string][]float64{}}

	// Step state from the last wiggle declaration line.
	var chrom string
	var fixed bool
	var pos, step, span int

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNum := 0
	for sc.Scan() {
		lineNum++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") ||
			strings.HasPrefix(line, "track") ||
			strings.HasPrefix(line, "browser") {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "fixedStep":
			opts, err := stepOptions(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("read track %s: line %d: %s", path, lineNum, err)
			}
			start, err1 := strconv.Atoi(opts["start"])
			if opts["chrom"] == "" || err1 != nil || start < 1 {
				return nil, fmt.Errorf("read track %s: line %d: "+
					"fixedStep needs chrom and a 1-based start", path, lineNum)
			}
			chrom = opts["chrom"]
			fixed = true
			pos = start - 1
			if step, err = stepOption(opts, "step", 1); err != nil {
				return nil, fmt.Errorf("read track %s: line %d: %s", path, lineNum, err)
			}
			if span, err = stepOption(opts, "span", 1); err != nil {
				return nil, fmt.Errorf("read track %s: line %d: %s", path, lineNum, err)
			}
		case "variableStep":
			opts, err := stepOptions(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("read track %s: line %d: %s", path, lineNum, err)
			}
			if opts["chrom"] == "" {
				return nil, fmt.Errorf("read track %s: line %d: "+
					"variableStep needs chrom", path, lineNum)
			}
			chrom = opts["chrom"]
			fixed = false
			if span, err = stepOption(opts, "span", 1); err != nil {
				return nil, fmt.Errorf("read track %s: line %d: %s", path, lineNum, err)
			}
		default:
			switch {
			case len(fields) == 4:
				start, err1 := strconv.Atoi(fields[1])
				end, err2 := strconv.Atoi(fields[2])
				value, err3 := strconv.ParseFloat(fields[3], 64)
				if err1 != nil || err2 != nil || err3 != nil || end <= start {
					return nil, fmt.Errorf("read track %s: line %d: "+
						"malformed bedGraph line", path, lineNum)
				}
				track.SetRange(fields[0], start, end, value)
			case chrom != "" && fixed && len(fields) == 1:
				value, err := strconv.ParseFloat(fields[0], 64)
				if err != nil {
					return nil, fmt.Errorf("read track %s: line %d: "+
						"malformed value", path, lineNum)
				}
				track.SetRange(chrom, pos, pos+span, value)
				pos += step
			case chrom != "" && !fixed && len(fields) == 2:
				p, err1 := strconv.Atoi(fields[0])
				value, err2 := strconv.ParseFloat(fields[1], 64)
				if err1 != nil || err2 != nil || p < 1 {
					return nil, fmt.Errorf("read track %s: line %d: "+
						"malformed value", path, lineNum)
				}
				track.SetRange(chrom, p-1, p-1+span, value)
			default:
				return nil, fmt.Errorf("read track %s: line %d: "+
					"unrecognized line", path, lineNum)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, essentials.AddCtx("read track "+path, err)
	}
	return track, nil
}

// stepOptions parses key=value fields from a wiggle
// declaration line.
func stepOptions(fields []string) (map[string]string, error) {
	opts := map[string]string{}
	for _, f := range fields {
		k, v, ok := strings.Cut(f, "=")
		if !ok {
			return nil, errors.New("malformed option " + strconv.Quote(f))
		}
		opts[k] = v
	}
	return opts, nil
}

func stepOption(opts map[string]string, name string, def int) (int, error) {
	v, ok := opts[name]
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, errors.New("malformed " + name + " option")
	}
	return n, nil
}

func isBigWigMagic(magic []byte) bool {
	return len(magic) >= 4 &&
		(bytes.Equal(magic[:4], []byte{0x26, 0xfc, 0x8f, 0x88}) ||
			bytes.Equal(magic[:4], []byte{0x88, 0x8f, 0xfc, 0x26}))
}

// gzipReader transparently decompresses gzip streams,
// detected by their magic number.
func gzipReader(br *bufio.Reader) (io.Reader, error) {
	magic, err := br.Peek(2)
	if err != nil && err != io.EOF {
		return nil, err
	}
	if len(magic) == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
		return gzip.NewReader(br)
	}
	return br, nil
}
