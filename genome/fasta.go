package genome

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"

	"github.com/unixpickle/essentials"
)

// ReadFASTA reads the sequences of a FASTA file, plain or
// gzipped, keyed by the first word of each record's header.
// Sequences are upper-cased.
func ReadFASTA(path string) (map[string][]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, essentials.AddCtx("read FASTA", err)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	var r io.Reader = br
	if magic, err := br.Peek(2); err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, essentials.AddCtx("read FASTA "+path, err)
		}
		r = gz
	}

	seqs := map[string][]byte{}
	var name string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	lineNum := 0
	for sc.Scan() {
		lineNum++
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 || line[0] == ';' {
			continue
		}
		if line[0] == '>' {
			fields := bytes.Fields(line[1:])
			if len(fields) == 0 {
				return nil, fmt.Errorf("read FASTA %s: line %d: missing sequence name",
					path, lineNum)
			}
			name = string(fields[0])
			if _, ok := seqs[name]; ok {
				return nil, fmt.Errorf("read FASTA %s: line %d: duplicate sequence %s",
					path, lineNum, name)
			}
			seqs[name] = nil
			continue
		}
		if name == "" {
			return nil, fmt.Errorf("read FASTA %s: line %d: sequence data before "+
				"any header", path, lineNum)
		}
		seqs[name] = append(seqs[name], bytes.ToUpper(line)...)
	}
	if err := sc.Err(); err != nil {
		return nil, essentials.AddCtx("read FASTA "+path, err)
	}
	return seqs, nil
}
