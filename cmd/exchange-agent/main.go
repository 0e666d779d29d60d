// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/user"
	"strings"

	"github.com/mailops/exchange-agent/agent"
	"github.com/mailops/exchange-agent/logger"
	"github.com/mailops/exchange-agent/pkg/buildinfo"
	"github.com/mailops/exchange-agent/pkg/cli"
	"github.com/mailops/exchange-agent/pkg/executable"
	"github.com/mailops/exchange-agent/pkg/multipath"

	"go.uber.org/automaxprocs/maxprocs"
	"golang.org/x/net/http/httpproxy"

	_ "github.com/mailops/exchange-agent/collector/exchangesrv"
	_ "github.com/mailops/exchange-agent/collector/msgtracking"
)

var defaultConfDir = multipath.New(
	"/etc/exchange-agent",
	"/usr/lib/exchange-agent/conf.d",
)

func init() {
	// Go mishandles TZ values with a leading colon (POSIX form).
	if v := os.Getenv("TZ"); strings.HasPrefix(v, ":") {
		_ = os.Unsetenv("TZ")
	}
}

func main() {
	_, _ = maxprocs.Set(maxprocs.Logger(func(_ string, _ ...any) {}))

	opts := parseCLI()

	if opts.Version {
		fmt.Printf("%s, version: %s\n", executable.Name, buildinfo.Version)
		return
	}

	if lvl := os.Getenv("EXCHANGE_AGENT_LOG_LEVEL"); lvl != "" {
		logger.Level.SetByName(lvl)
	}
	if opts.Debug {
		logger.Level.Set(slog.LevelDebug)
	}

	dir := confDir(opts)

	a := agent.New(agent.Config{
		Name:                 executable.Name,
		ConfDir:              dir,
		ModulesConfDir:       dir,
		ModulesConfWatchPath: opts.WatchPath,
		LockDir:              os.Getenv("EXCHANGE_AGENT_LOCK_DIR"),
		LogsOutput:           logsOutput(opts),
		RunModule:            opts.Module,
		MinUpdateEvery:       opts.UpdateEvery,
	})

	a.Infof("agent: name=%s, version: %s", a.Name, buildinfo.Version)
	if u, err := user.Current(); err == nil {
		a.Debugf("current user: name=%s, uid=%s", u.Username, u.Uid)
	}

	cfg := httpproxy.FromEnvironment()
	a.Infof("env HTTP_PROXY '%s', HTTPS_PROXY '%s'", cfg.HTTPProxy, cfg.HTTPSProxy)

	a.Run()
}

func parseCLI() *cli.Option {
	opt, err := cli.Parse(os.Args)
	if err != nil {
		if cli.IsHelp(err) {
			os.Exit(0)
		}
		os.Exit(1)
	}
	return opt
}

func confDir(opts *cli.Option) multipath.MultiPath {
	if len(opts.ConfDir) > 0 {
		return multipath.New(opts.ConfDir...)
	}
	if v := os.Getenv("EXCHANGE_AGENT_CONFIG_DIR"); v != "" {
		return multipath.New(strings.Split(v, ":")...)
	}
	return defaultConfDir
}

func logsOutput(opts *cli.Option) string {
	if opts.LogsOutput != "" {
		return opts.LogsOutput
	}
	return os.Getenv("EXCHANGE_AGENT_LOGS_OUTPUT")
}
