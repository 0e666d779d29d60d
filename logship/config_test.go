// SPDX-License-Identifier: GPL-3.0-or-later

package logship

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mailops/exchange-agent/logger"
	"github.com/mailops/exchange-agent/pkg/multipath"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_readEntries(t *testing.T) {
	dir := t.TempDir()

	writeConf(t, dir, "exchange_server.d", `
update_every: 5
jobs:
  - name: local
    url: http://127.0.0.1:9182/metrics
logs:
  - type: file
    path: /var/log/exchange/connectivity/*.log
    source: exchange-server
    service: exchange
  - type: journald
    path: /var/log/whatever
  - type: file
    path: ""
`)
	writeConf(t, dir, "msgtracking.d", `
logs:
  - type: file
    path: /var/log/exchange/messagetracking/MSGTRK*.LOG
    exclude_path: "*.gz"
`)

	entries := readEntries(multipath.New(dir), logger.New())

	require.Len(t, entries, 2)

	assert.Equal(t, Entry{
		Type:    "file",
		Path:    "/var/log/exchange/connectivity/*.log",
		Source:  "exchange-server",
		Service: "exchange",
	}, entries[0])

	assert.Equal(t, Entry{
		Type:        "file",
		Path:        "/var/log/exchange/messagetracking/MSGTRK*.LOG",
		ExcludePath: "*.gz",
		Source:      "msgtracking",
	}, entries[1])
}

func Test_readEntries_FirstDirWins(t *testing.T) {
	dir1 := t.TempDir()
	dir2 := t.TempDir()

	writeConf(t, dir1, "msgtracking.d", `
logs:
  - type: file
    path: /from/first/dir/*.log
`)
	writeConf(t, dir2, "msgtracking.d", `
logs:
  - type: file
    path: /from/second/dir/*.log
`)

	entries := readEntries(multipath.New(dir1, dir2), logger.New())

	require.Len(t, entries, 1)
	assert.Equal(t, "/from/first/dir/*.log", entries[0].Path)
}

func Test_readEntries_NoLogsSection(t *testing.T) {
	dir := t.TempDir()

	writeConf(t, dir, "exchange_server.d", `
jobs:
  - name: local
    url: http://127.0.0.1:9182/metrics
`)

	assert.Empty(t, readEntries(multipath.New(dir), logger.New()))
}

func TestEntry_validate(t *testing.T) {
	tests := map[string]struct {
		entry   Entry
		wantErr bool
	}{
		"valid": {
			entry: Entry{Type: "file", Path: "/var/log/*.log"},
		},
		"valid recursive glob": {
			entry: Entry{Type: "file", Path: "/var/log/**/*.log"},
		},
		"unsupported type": {
			entry:   Entry{Type: "journald", Path: "/var/log/*.log"},
			wantErr: true,
		},
		"empty path": {
			entry:   Entry{Type: "file"},
			wantErr: true,
		},
		"bad path pattern": {
			entry:   Entry{Type: "file", Path: "/var/log/[.log"},
			wantErr: true,
		},
		"bad exclude_path pattern": {
			entry:   Entry{Type: "file", Path: "/var/log/*.log", ExcludePath: "["},
			wantErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			if test.wantErr {
				assert.Error(t, test.entry.validate())
			} else {
				assert.NoError(t, test.entry.validate())
			}
		})
	}
}

func writeConf(t *testing.T, dir, sub, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, sub), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, sub, "conf.yaml"), []byte(content), 0644))
}
