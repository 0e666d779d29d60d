// SPDX-License-Identifier: GPL-3.0-or-later

package web

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/mailops/exchange-agent/pkg/buildinfo"
	"github.com/mailops/exchange-agent/pkg/executable"
)

// RequestConfig describes an HTTP request as it appears in a job's YAML
// configuration. Embed it via HTTPConfig rather than using it directly.
type RequestConfig struct {
	URL string `yaml:"url" json:"url"`

	// Username and Password set basic auth on the request.
	Username string `yaml:"username,omitempty" json:"username"`
	Password string `yaml:"password,omitempty" json:"password"`

	// BearerTokenFile points to a file whose content is sent as
	// "Authorization: Bearer <token>". It takes precedence over basic auth.
	BearerTokenFile string `yaml:"bearer_token_file,omitempty" json:"bearer_token_file"`

	// ProxyUsername and ProxyPassword set the Proxy-Authorization header.
	ProxyUsername string `yaml:"proxy_username,omitempty" json:"proxy_username"`
	ProxyPassword string `yaml:"proxy_password,omitempty" json:"proxy_password"`

	// Method is the HTTP method. Empty means GET.
	Method string `yaml:"method,omitempty" json:"method"`

	// Headers are extra request headers. A "host" key overrides the
	// request's Host instead of being set as a header.
	Headers map[string]string `yaml:"headers,omitempty" json:"headers"`

	Body string `yaml:"body,omitempty" json:"body"`
}

// Copy returns a copy that shares nothing with the original.
func (r RequestConfig) Copy() RequestConfig {
	if r.Headers == nil {
		return r
	}

	headers := make(map[string]string, len(r.Headers))
	for k, v := range r.Headers {
		headers[k] = v
	}
	r.Headers = headers
	return r
}

var userAgent = fmt.Sprintf("%s.plugin/%s", executable.Name, buildinfo.Version)

// NewHTTPRequest builds an *http.Request from cfg.
func NewHTTPRequest(cfg RequestConfig) (*http.Request, error) {
	var body io.Reader
	if cfg.Body != "" {
		body = strings.NewReader(cfg.Body)
	}

	method := cfg.Method
	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequest(method, cfg.URL, body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", userAgent)

	if err := setAuthentication(req, cfg); err != nil {
		return nil, err
	}

	if cfg.ProxyUsername != "" && cfg.ProxyPassword != "" {
		creds := base64.StdEncoding.EncodeToString([]byte(cfg.ProxyUsername + ":" + cfg.ProxyPassword))
		req.Header.Set("Proxy-Authorization", "Basic "+creds)
	}

	for k, v := range cfg.Headers {
		if strings.EqualFold(k, "host") {
			req.Host = v
			continue
		}
		req.Header.Set(k, v)
	}

	return req, nil
}

// NewHTTPRequestWithPath builds a request for cfg.URL with urlPath joined
// onto it. cfg itself is left untouched.
func NewHTTPRequestWithPath(cfg RequestConfig, urlPath string) (*http.Request, error) {
	cfg = cfg.Copy()

	v, err := url.JoinPath(cfg.URL, urlPath)
	if err != nil {
		return nil, fmt.Errorf("failed to join URL path: %w", err)
	}
	cfg.URL = v

	return NewHTTPRequest(cfg)
}

func setAuthentication(req *http.Request, cfg RequestConfig) error {
	switch {
	case cfg.BearerTokenFile != "":
		return setBearerTokenAuth(req, cfg.BearerTokenFile)
	case cfg.Username != "" || cfg.Password != "":
		req.SetBasicAuth(cfg.Username, cfg.Password)
	}
	return nil
}

func setBearerTokenAuth(req *http.Request, tokenFile string) error {
	tokenBs, err := os.ReadFile(tokenFile)
	if err != nil {
		return fmt.Errorf("bearer token file: %w", err)
	}

	token := strings.TrimSpace(string(tokenBs))
	if token == "" {
		return fmt.Errorf("bearer token file is empty")
	}

	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}
