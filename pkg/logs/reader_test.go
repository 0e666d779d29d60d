// SPDX-License-Identifier: GPL-3.0-or-later

package logs

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mail.log")
	require.NoError(t, os.WriteFile(path, []byte("old line\n"), 0644))

	tests := map[string]struct {
		path        string
		excludePath string
		wantErr     bool
	}{
		"direct path":        {path: path},
		"glob path":          {path: filepath.Join(dir, "*.log")},
		"no matched files":   {path: filepath.Join(dir, "*.txt"), wantErr: true},
		"excluded only file": {path: filepath.Join(dir, "*.log"), excludePath: "*.log", wantErr: true},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			r, err := Open(test.path, test.excludePath, nil)

			if test.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			defer func() { _ = r.Close() }()
			assert.Equal(t, path, r.CurrentFilename())
		})
	}
}

func TestReader_Read(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mail.log")
	require.NoError(t, os.WriteFile(path, []byte("old line\n"), 0644))

	r, err := Open(path, "", nil)
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	// opened at the end, nothing to read yet
	_, err = r.Read(make([]byte, 128))
	assert.Equal(t, io.EOF, err)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	require.NoError(t, err)
	_, err = f.WriteString("new line\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	line, err := bufio.NewReader(r).ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "new line\n", line)
}

func TestReader_Close(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mail.log")
	require.NoError(t, os.WriteFile(path, []byte("line\n"), 0644))

	r, err := Open(path, "", nil)
	require.NoError(t, err)

	assert.NoError(t, r.Close())
	assert.NoError(t, r.Close())
}
