// SPDX-License-Identifier: GPL-3.0-or-later

package logs

import (
	"bytes"
	"errors"
	"os"

	"github.com/clbanning/rfile/v2"
)

// DefaultMaxLineWidth matches the common disk block size.
const DefaultMaxLineWidth = 4 * 1024

var ErrTooLongLine = errors.New("too long line")

// ReadLastLine returns the last line of the file. It reads at most
// maxLineWidth bytes from the tail of the file; a longer last line
// yields ErrTooLongLine. maxLineWidth <= 0 means DefaultMaxLineWidth.
func ReadLastLine(filename string, maxLineWidth int64) ([]byte, error) {
	if maxLineWidth <= 0 {
		maxLineWidth = DefaultMaxLineWidth
	}
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	stat, _ := f.Stat()
	endPos := stat.Size()
	if endPos == 0 {
		return []byte{}, nil
	}

	startPos := endPos - maxLineWidth
	if startPos < 0 {
		startPos = 0
	}

	buf := make([]byte, endPos-startPos)
	n, err := f.ReadAt(buf, startPos)
	if err != nil {
		return nil, err
	}

	// The trailing newline, if any, is not a line boundary.
	if i := bytes.LastIndexByte(buf[:n-1], '\n'); i != -1 {
		return buf[i+1 : n], nil
	}
	if startPos == 0 {
		return buf[:n], nil
	}

	return nil, ErrTooLongLine
}

// ReadLastLines returns up to n lines from the tail of the file.
func ReadLastLines(filename string, n uint) ([]string, error) {
	return rfile.Tail(filename, int(n))
}
