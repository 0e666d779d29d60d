// SPDX-License-Identifier: GPL-3.0-or-later

package agent

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/mailops/exchange-agent/agent/confgroup"
	"github.com/mailops/exchange-agent/agent/discovery"
	"github.com/mailops/exchange-agent/agent/filelock"
	"github.com/mailops/exchange-agent/agent/jobmgr"
	"github.com/mailops/exchange-agent/agent/module"
	"github.com/mailops/exchange-agent/agent/netdataapi"
	"github.com/mailops/exchange-agent/agent/safewriter"
	"github.com/mailops/exchange-agent/logger"
	"github.com/mailops/exchange-agent/logship"
	"github.com/mailops/exchange-agent/pkg/multipath"

	"github.com/mattn/go-isatty"
)

var isTerminal = isatty.IsTerminal(os.Stdout.Fd())

// Config is an Agent configuration.
type Config struct {
	Name                 string
	ConfDir              []string
	ModulesConfDir       []string
	ModulesConfWatchPath []string
	LockDir              string
	LogsOutput           string
	ModuleRegistry       module.Registry
	RunModule            string
	MinUpdateEvery       int
}

// Agent represents orchestrator.
type Agent struct {
	*logger.Logger

	Name                 string
	ConfDir              multipath.MultiPath
	ModulesConfDir       multipath.MultiPath
	ModulesConfWatchPath []string
	LockDir              string
	LogsOutput           string
	RunModule            string
	MinUpdateEvery       int
	ModuleRegistry       module.Registry
	Out                  io.Writer

	api *netdataapi.API
}

// New creates a new Agent.
func New(cfg Config) *Agent {
	return &Agent{
		Logger: logger.New().With(
			slog.String("component", "agent"),
		),
		Name:                 cfg.Name,
		ConfDir:              cfg.ConfDir,
		ModulesConfDir:       cfg.ModulesConfDir,
		ModulesConfWatchPath: cfg.ModulesConfWatchPath,
		LockDir:              cfg.LockDir,
		LogsOutput:           cfg.LogsOutput,
		RunModule:            cfg.RunModule,
		MinUpdateEvery:       cfg.MinUpdateEvery,
		ModuleRegistry:       module.DefaultRegistry,
		Out:                  safewriter.Stdout,
		api:                  netdataapi.New(safewriter.Stdout),
	}
}

// Run starts the Agent.
func (a *Agent) Run() {
	go a.keepAlive()
	serve(a)
}

func serve(a *Agent) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	var wg sync.WaitGroup

	var exit bool

	for {
		ctx, cancel := context.WithCancel(context.Background())

		wg.Add(1)
		go func() { defer wg.Done(); a.run(ctx) }()

		switch sig := <-ch; sig {
		case syscall.SIGHUP:
			a.Infof("received %s signal (%d). Restarting running instance", sig, sig)
		default:
			a.Infof("received %s signal (%d). Terminating...", sig, sig)
			module.DontObsoleteCharts()
			exit = true
		}

		cancel()

		func() {
			timeout := time.Second * 10
			t := time.NewTimer(timeout)
			defer t.Stop()
			done := make(chan struct{})

			go func() { wg.Wait(); close(done) }()

			select {
			case <-t.C:
				a.Errorf("stopping all goroutines timed out after %s. Exiting...", timeout)
				os.Exit(0)
			case <-done:
			}
		}()

		if exit {
			os.Exit(0)
		}

		time.Sleep(time.Second)
	}
}

func (a *Agent) run(ctx context.Context) {
	a.Info("instance is started")
	defer func() { a.Info("instance is stopped") }()

	cfg := a.loadPluginConfig()
	a.Infof("using config: %s", cfg.String())

	if !bool(cfg.Enabled) {
		a.Info("plugin is disabled in the configuration file, exiting...")
		if isTerminal {
			os.Exit(0)
		}
		_ = a.api.DISABLE()
		return
	}

	enabledModules := a.loadEnabledModules(cfg)
	if len(enabledModules) == 0 {
		a.Info("no modules to run")
		if isTerminal {
			os.Exit(0)
		}
		_ = a.api.DISABLE()
		return
	}

	discCfg := a.buildDiscoveryConf(enabledModules)

	discMgr, err := discovery.NewManager(discCfg)
	if err != nil {
		a.Error(err)
		if isTerminal {
			os.Exit(0)
		}
		return
	}

	jobMgr := jobmgr.NewManager()
	jobMgr.PluginName = a.Name
	jobMgr.Out = a.Out
	jobMgr.Modules = enabledModules

	if a.LockDir != "" {
		jobMgr.FileLock = filelock.New(a.LockDir)
	}

	var logsMgr *logship.Manager
	if mgr, err := logship.NewManager(logship.Config{
		ConfDir: a.ModulesConfDir,
		Output:  a.LogsOutput,
	}); err != nil {
		a.Warningf("couldn't create log shipping manager: %v", err)
	} else {
		logsMgr = mgr
	}

	in := make(chan []*confgroup.Group)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() { defer wg.Done(); jobMgr.Run(ctx, in) }()

	wg.Add(1)
	go func() { defer wg.Done(); discMgr.Run(ctx, in) }()

	if logsMgr != nil {
		wg.Add(1)
		go func() { defer wg.Done(); logsMgr.Run(ctx) }()
	}

	wg.Wait()
	<-ctx.Done()
}

func (a *Agent) keepAlive() {
	if isTerminal {
		return
	}

	tk := time.NewTicker(time.Second)
	defer tk.Stop()

	var n int
	for range tk.C {
		if err := a.api.EMPTYLINE(); err != nil {
			a.Infof("keepAlive: %v", err)
			n++
		} else {
			n = 0
		}
		if n == 3 {
			a.Info("too many keepAlive errors. Terminating...")
			os.Exit(0)
		}
	}
}
