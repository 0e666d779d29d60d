// SPDX-License-Identifier: GPL-3.0-or-later

package logship

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mailops/exchange-agent/logger"
	"github.com/mailops/exchange-agent/pkg/logs"

	"github.com/bmatcuk/doublestar/v4"
)

const (
	pollEvery   = time.Second
	maxLineSize = 16 * 1024
)

type tailer struct {
	*logger.Logger

	entry Entry
	out   chan<- Event

	file    *logs.Reader
	pending []byte
	discard bool
	buf     []byte
}

func newTailer(entry Entry, out chan<- Event) *tailer {
	return &tailer{
		Logger: log.With(slog.String("path", entry.Path)),
		entry:  entry,
		out:    out,
		buf:    make([]byte, maxLineSize),
	}
}

func (t *tailer) run(ctx context.Context) {
	t.Debug("tailer is started")
	defer t.Debug("tailer is stopped")
	defer t.stop()

	tk := time.NewTicker(pollEvery)
	defer tk.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-tk.C:
			t.poll(ctx)
		}
	}
}

func (t *tailer) stop() {
	if t.file != nil {
		_ = t.file.Close()
		t.file = nil
	}
}

func (t *tailer) poll(ctx context.Context) {
	if t.file == nil && !t.openFile() {
		return
	}

	for {
		n, err := t.file.Read(t.buf)
		if n > 0 {
			t.consume(ctx, t.buf[:n])
		}
		if err != nil {
			if err != io.EOF {
				t.handleReadError(err)
			}
			return
		}
	}
}

func (t *tailer) handleReadError(err error) {
	// the reader reopens on its own, losing track of the file is not fatal
	if errors.Is(err, logs.ErrNoMatchedFile) {
		t.Debugf("read: %v", err)
		return
	}
	t.Warningf("read: %v", err)
}

func (t *tailer) openFile() bool {
	path := t.entry.Path
	if strings.Contains(path, "**") {
		v, err := resolveRecursiveGlob(path, t.entry.ExcludePath)
		if err != nil {
			t.Debugf("resolve path: %v", err)
			return false
		}
		path = v
	}

	file, err := logs.Open(path, t.entry.ExcludePath, t.Logger)
	if err != nil {
		t.Debugf("open: %v", err)
		return false
	}

	t.Debugf("tailing '%s'", file.CurrentFilename())
	t.file = file
	return true
}

func (t *tailer) consume(ctx context.Context, data []byte) {
	t.pending = append(t.pending, data...)

	for {
		idx := bytes.IndexByte(t.pending, '\n')
		if idx == -1 {
			break
		}
		line := t.pending[:idx]
		if !t.discard {
			if len(line) > maxLineSize {
				line = line[:maxLineSize]
			}
			t.emit(ctx, line)
		}
		t.discard = false
		t.pending = t.pending[idx+1:]
	}

	if len(t.pending) > maxLineSize {
		// emit the first part of an oversized line, drop the rest of it
		t.emit(ctx, t.pending[:maxLineSize])
		t.pending = t.pending[:0]
		t.discard = true
	}
}

func (t *tailer) emit(ctx context.Context, line []byte) {
	line = bytes.TrimSuffix(line, []byte("\r"))
	if len(line) == 0 {
		return
	}

	ev := Event{
		Timestamp: time.Now(),
		Source:    t.entry.Source,
		Service:   t.entry.Service,
		Path:      t.file.CurrentFilename(),
		Message:   string(line),
	}

	select {
	case <-ctx.Done():
	case t.out <- ev:
	}
}

// resolveRecursiveGlob picks the last modified file matched by a '**'
// pattern. The non-recursive case is handled by the reader itself.
func resolveRecursiveGlob(path, excludePath string) (string, error) {
	matches, err := doublestar.FilepathGlob(filepath.ToSlash(path))
	if err != nil {
		return "", err
	}

	var file string
	var modTime int64 = -1
	for _, m := range matches {
		if excludePath != "" {
			if ok, _ := filepath.Match(excludePath, filepath.Base(m)); ok {
				continue
			}
		}
		fi, err := os.Stat(m)
		if err != nil || !fi.Mode().IsRegular() {
			continue
		}
		if v := fi.ModTime().UnixNano(); v > modTime {
			modTime = v
			file = m
		}
	}

	if file == "" {
		return "", logs.ErrNoMatchedFile
	}
	return file, nil
}
