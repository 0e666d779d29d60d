// SPDX-License-Identifier: GPL-3.0-or-later

package logs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mailops/exchange-agent/logger"
)

const (
	maxEOF = 60
)

var ErrNoMatchedFile = errors.New("no matched files")

// Reader is a glob aware log file reader.
// The pattern may match several files, the last modified one wins.
// On open it seeks to the end, so only new lines are read.
// Log rotation and truncation are handled transparently on EOF.
type Reader struct {
	file          *os.File
	path          string
	excludePath   string
	eofCounter    int
	continuousEOF int
	log           *logger.Logger
}

// Open opens the last modified file that matches the path glob and is not
// excluded by the excludePath glob.
func Open(path string, excludePath string, log *logger.Logger) (*Reader, error) {
	var err error
	if path, err = filepath.Abs(path); err != nil {
		return nil, err
	}
	if _, err = filepath.Match(path, "/"); err != nil {
		return nil, fmt.Errorf("bad path syntax: %w", err)
	}
	if excludePath != "" {
		if _, err = filepath.Match(excludePath, "/"); err != nil {
			return nil, fmt.Errorf("bad exclude_path syntax: %w", err)
		}
	}

	r := &Reader{
		path:        path,
		excludePath: excludePath,
		log:         log,
	}

	if err = r.open(); err != nil {
		return nil, err
	}
	return r, nil
}

// CurrentFilename returns the name of the currently opened file.
func (r *Reader) CurrentFilename() string {
	return r.file.Name()
}

func (r *Reader) open() error {
	path := r.findFile()
	if path == "" {
		r.log.Debugf("couldn't find log file, used path: '%s', exclude_path: '%s'", r.path, r.excludePath)
		return ErrNoMatchedFile
	}

	r.log.Debug("open log file: ", path)
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	stat, err := file.Stat()
	if err != nil {
		return err
	}
	if _, err = file.Seek(stat.Size(), io.SeekStart); err != nil {
		return err
	}
	r.file = file
	return nil
}

func (r *Reader) Read(p []byte) (n int, err error) {
	n, err = r.file.Read(p)
	if err != nil {
		switch err {
		case io.EOF:
			err = r.handleEOFErr()
		case os.ErrInvalid: // r.file is nil after Close
			err = r.handleInvalidArgErr()
		}
		return
	}
	r.continuousEOF = 0
	return
}

func (r *Reader) handleEOFErr() (err error) {
	err = io.EOF
	r.eofCounter++
	r.continuousEOF++
	if r.eofCounter < maxEOF || r.continuousEOF < maxEOF {
		return err
	}
	if err2 := r.reopen(); err2 != nil {
		err = err2
	}
	return err
}

func (r *Reader) handleInvalidArgErr() (err error) {
	err = io.EOF
	if err2 := r.reopen(); err2 != nil {
		err = err2
	}
	return err
}

func (r *Reader) reopen() error {
	r.log.Debugf("reopen, look for: %s", r.path)
	_ = r.Close()
	r.eofCounter = 0
	return r.open()
}

func (r *Reader) Close() (err error) {
	if r == nil || r.file == nil {
		return
	}

	r.log.Debug("close log file: ", r.file.Name())
	err = r.file.Close()
	r.file = nil
	r.continuousEOF = 0
	return
}

func (r *Reader) findFile() string {
	return find(r.path, r.excludePath)
}

func find(path, exclude string) string {
	files, _ := filepath.Glob(path)
	if len(files) == 0 {
		return ""
	}

	files = filterFiles(files, exclude)
	if len(files) == 0 {
		return ""
	}

	return findLastFile(files)
}

func filterFiles(files []string, exclude string) []string {
	if exclude == "" {
		return files
	}

	fs := make([]string, 0, len(files))
	for _, file := range files {
		if ok, _ := filepath.Match(exclude, filepath.Base(file)); !ok {
			fs = append(fs, file)
		}
	}
	return fs
}

// findLastFile finds the last modified file.
func findLastFile(files []string) (file string) {
	var modTime int64 = -1
	for _, f := range files {
		fi, err := os.Stat(f)
		if err != nil || !fi.Mode().IsRegular() {
			continue
		}
		if v := fi.ModTime().UnixNano(); v > modTime {
			modTime = v
			file = f
		}
	}
	return file
}
