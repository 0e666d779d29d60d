// SPDX-License-Identifier: GPL-3.0-or-later

package web

import (
	"io"
	"net/http"
)

// HTTPConfig is a struct with embedded RequestConfig and ClientConfig.
// This structure intended to be part of the module configuration.
// Supported configuration file formats: YAML.
type HTTPConfig struct {
	RequestConfig `yaml:",inline" json:""`
	ClientConfig  `yaml:",inline" json:""`
}

// CloseBody drains and closes the response body so the underlying
// connection can be reused.
func CloseBody(resp *http.Response) {
	if resp != nil && resp.Body != nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}
}
