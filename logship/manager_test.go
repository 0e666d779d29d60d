// SPDX-License-Identifier: GPL-3.0-or-later

package logship

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mailops/exchange-agent/pkg/multipath"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManager(t *testing.T) {
	tests := map[string]struct {
		cfg     Config
		wantErr bool
	}{
		"file output": {
			cfg: Config{
				ConfDir: multipath.New(t.TempDir()),
				Output:  filepath.Join(t.TempDir(), "events.ndjson"),
			},
		},
		"socket output": {
			cfg: Config{
				ConfDir: multipath.New(t.TempDir()),
				Output:  "tcp://127.0.0.1:5170",
			},
		},
		"no output": {
			cfg:     Config{ConfDir: multipath.New(t.TempDir())},
			wantErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			mgr, err := NewManager(test.cfg)
			if test.wantErr {
				assert.Error(t, err)
				assert.Nil(t, mgr)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, mgr)
			}
		})
	}
}

func TestManager_Run(t *testing.T) {
	confDir := t.TempDir()
	logsDir := t.TempDir()
	logPath := filepath.Join(logsDir, "app.log")
	outPath := filepath.Join(t.TempDir(), "events.ndjson")

	require.NoError(t, os.WriteFile(logPath, nil, 0644))
	writeConf(t, confDir, "exchange_server.d", `
logs:
  - type: file
    path: `+filepath.Join(logsDir, "*.log")+`
    source: exchange-server
`)

	mgr, err := NewManager(Config{ConfDir: multipath.New(confDir), Output: outPath})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() { defer close(done); mgr.Run(ctx) }()

	// the tailer opens the file at its end, keep writing until an event
	// makes it through
	assert.Eventually(t, func() bool {
		f, err := os.OpenFile(logPath, os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return false
		}
		_, _ = f.WriteString("hello world\n")
		_ = f.Close()

		bs, err := os.ReadFile(outPath)
		return err == nil && len(bs) > 0
	}, time.Second*10, time.Millisecond*500)

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second * 5):
		t.Fatal("manager didn't stop")
	}

	bs, err := os.ReadFile(outPath)
	require.NoError(t, err)

	line := strings.SplitN(strings.TrimSpace(string(bs)), "\n", 2)[0]
	var ev Event
	require.NoError(t, json.Unmarshal([]byte(line), &ev))
	assert.Equal(t, "exchange-server", ev.Source)
	assert.Equal(t, logPath, ev.Path)
	assert.Equal(t, "hello world", ev.Message)
}

func Test_entriesHash(t *testing.T) {
	a := []Entry{{Type: "file", Path: "/var/log/*.log"}}
	b := []Entry{{Type: "file", Path: "/var/log/other/*.log"}}

	assert.Equal(t, entriesHash(a), entriesHash(a))
	assert.NotEqual(t, entriesHash(a), entriesHash(b))
}
