package scan

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
)

const (
	initialBufSize = 64 * 1024        // 64KB
	MaxLineSize    = 20 * 1024 * 1024 // 20MB
)

// errStop ends a Lines walk early without reporting an error.
var errStop = errors.New("stop")

// Stop can be returned from a Lines callback to end the walk.
func Stop() error { return errStop }

// Lines calls fn for every non-blank line of the file at path, in
// order. Lines longer than MaxLineSize are skipped. A missing file is
// reported as fs.ErrNotExist so callers can treat it as "no data".
func Lines(path string, fn func(line string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	lr := newLineReader(f, MaxLineSize)
	for {
		line, err := lr.next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		if err := fn(line); err != nil {
			if errors.Is(err, errStop) {
				return nil
			}
			return err
		}
	}
}

// lineReader reads JSONL content line by line, skipping lines that
// exceed maxLen rather than aborting. The buffer starts small and
// grows on demand up to maxLen.
type lineReader struct {
	r      *bufio.Reader
	maxLen int
	buf    []byte
}

func newLineReader(r io.Reader, maxLen int) *lineReader {
	return &lineReader{
		r:      bufio.NewReaderSize(r, initialBufSize),
		maxLen: maxLen,
		buf:    make([]byte, 0, initialBufSize),
	}
}

// next returns the next non-blank line without its trailing newline.
// It returns io.EOF once the input is exhausted.
func (lr *lineReader) next() (string, error) {
	for {
		line, err := lr.readLine()
		if err != nil {
			return "", err
		}
		if !isBlank(line) {
			return line, nil
		}
	}
}

// readLine returns "" for oversized lines.
func (lr *lineReader) readLine() (string, error) {
	lr.buf = lr.buf[:0]
	oversized := false

	for {
		chunk, isPrefix, err := lr.r.ReadLine()
		if err != nil {
			if err == io.EOF && len(lr.buf) > 0 {
				break
			}
			return "", err
		}

		if oversized {
			if !isPrefix {
				return "", nil
			}
			continue
		}

		lr.buf = append(lr.buf, chunk...)
		if len(lr.buf) > lr.maxLen {
			oversized = true
			lr.buf = lr.buf[:0]
			if !isPrefix {
				return "", nil
			}
			continue
		}

		if !isPrefix {
			break
		}
	}
	return string(lr.buf), nil
}

func isBlank(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\r':
		default:
			return false
		}
	}
	return true
}
