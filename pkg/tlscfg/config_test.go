// SPDX-License-Identifier: GPL-3.0-or-later

package tlscfg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTLSConfig(t *testing.T) {
	tests := map[string]struct {
		cfg     TLSConfig
		wantNil bool
		wantErr bool
	}{
		"empty config returns nil": {
			cfg:     TLSConfig{},
			wantNil: true,
		},
		"skip verify only": {
			cfg: TLSConfig{InsecureSkipVerify: true},
		},
		"nonexistent ca": {
			cfg:     TLSConfig{TLSCA: "testdata/not_exist.pem"},
			wantErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			tlsCfg, err := NewTLSConfig(test.cfg)

			if test.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			if test.wantNil {
				assert.Nil(t, tlsCfg)
			} else {
				require.NotNil(t, tlsCfg)
				assert.Equal(t, test.cfg.InsecureSkipVerify, tlsCfg.InsecureSkipVerify)
			}
		})
	}
}
