// SPDX-License-Identifier: GPL-3.0-or-later

// Package logship implements the 'logs' section of module conf files: it
// tails the declared log files and forwards every line as an NDJSON event
// to a spool file or a socket.
package logship

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/mailops/exchange-agent/logger"
	"github.com/mailops/exchange-agent/pkg/multipath"

	"github.com/fsnotify/fsnotify"
	"github.com/gohugoio/hashstructure"
)

var log = logger.New().With(
	slog.String("component", "logship"),
)

type Config struct {
	ConfDir multipath.MultiPath
	Output  string
}

type Manager struct {
	*logger.Logger

	confDir multipath.MultiPath
	out     Output

	refreshEvery time.Duration
}

func NewManager(cfg Config) (*Manager, error) {
	out, err := newOutput(cfg.Output)
	if err != nil {
		return nil, err
	}

	mgr := &Manager{
		Logger:       log.With(slog.String("output", cfg.Output)),
		confDir:      cfg.ConfDir,
		out:          out,
		refreshEvery: time.Minute,
	}

	return mgr, nil
}

func (m *Manager) Run(ctx context.Context) {
	m.Info("instance is started")
	defer m.Info("instance is stopped")
	defer func() { _ = m.out.Close() }()

	events := make(chan Event, 2048)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() { defer wg.Done(); m.runWriteLoop(ctx, events) }()

	wg.Add(1)
	go func() { defer wg.Done(); m.runTailers(ctx, events) }()

	wg.Wait()
}

func (m *Manager) runWriteLoop(ctx context.Context, events <-chan Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			if err := m.out.Write(ev); err != nil {
				m.Warningf("write event: %v", err)
			}
		}
	}
}

// runTailers starts one tailer per valid entry and restarts the whole set
// whenever the conf files change.
func (m *Manager) runTailers(ctx context.Context, events chan<- Event) {
	for {
		entries := readEntries(m.confDir, m.Logger)
		m.Infof("starting %d tailer(s)", len(entries))

		tailersCtx, cancel := context.WithCancel(ctx)

		var wg sync.WaitGroup
		for _, entry := range entries {
			t := newTailer(entry, events)
			wg.Add(1)
			go func() { defer wg.Done(); t.run(tailersCtx) }()
		}

		changed := m.waitConfChange(ctx, entriesHash(entries))

		cancel()
		wg.Wait()

		if !changed {
			return
		}
		m.Info("configuration changed, restarting tailers")
	}
}

// waitConfChange blocks until the conf files change or the context is done.
// It returns true on change, false on context cancellation.
func (m *Manager) waitConfChange(ctx context.Context, hash uint64) bool {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		m.Errorf("fsnotify watcher initialization: %v", err)
		<-ctx.Done()
		return false
	}
	defer closeWatcher(watcher)

	for _, dir := range m.confDir {
		if err := watcher.Add(dir); err != nil {
			m.Debugf("start watching '%s': %v", dir, err)
		}
		if dirs, err := filepath.Glob(filepath.Join(dir, "*.d")); err == nil {
			for _, d := range dirs {
				if err := watcher.Add(d); err != nil {
					m.Debugf("start watching '%s': %v", d, err)
				}
			}
		}
	}

	tk := time.NewTicker(m.refreshEvery)
	defer tk.Stop()

	for {
		select {
		case <-ctx.Done():
			return false
		case <-tk.C:
			if entriesHash(readEntries(m.confDir, m.Logger)) != hash {
				return true
			}
		case event := <-watcher.Events:
			if event.Name == "" || isChmodOnly(event) || !isConfFile(event.Name) {
				break
			}
			if entriesHash(readEntries(m.confDir, m.Logger)) != hash {
				return true
			}
		case err := <-watcher.Errors:
			if err != nil {
				m.Warningf("watch error: %v", err)
			}
		}
	}
}

func entriesHash(entries []Entry) uint64 {
	hash, _ := hashstructure.Hash(entries, nil)
	return hash
}

func isConfFile(path string) bool {
	return strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml")
}

func isChmodOnly(event fsnotify.Event) bool {
	return event.Op^fsnotify.Chmod == 0
}

func closeWatcher(watcher *fsnotify.Watcher) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// closing the watcher deadlocks unless all events and errors are drained
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-watcher.Events:
			case <-watcher.Errors:
			}
		}
	}()

	_ = watcher.Close()
}
