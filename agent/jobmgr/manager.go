// SPDX-License-Identifier: GPL-3.0-or-later

package jobmgr

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mailops/exchange-agent/agent/confgroup"
	"github.com/mailops/exchange-agent/agent/module"
	"github.com/mailops/exchange-agent/logger"

	"gopkg.in/yaml.v2"
)

type Job interface {
	Name() string
	ModuleName() string
	FullName() string
	AutoDetection() error
	AutoDetectionEvery() int
	RetryAutoDetection() bool
	Tick(clock int)
	Start()
	Stop()
	Cleanup()
}

type jobStatus = string

const (
	jobStatusRunning          jobStatus = "running"                  // Check() succeeded
	jobStatusRetrying         jobStatus = "retrying"                 // Check() failed, but we need keep trying auto-detection
	jobStatusStoppedFailed    jobStatus = "stopped_failed"           // Check() failed
	jobStatusStoppedDupLocal  jobStatus = "stopped_duplicate_local"  // a job with the same FullName is running
	jobStatusStoppedDupGlobal jobStatus = "stopped_duplicate_global" // a job with the same FullName is registered by another plugin
	jobStatusStoppedRegErr    jobStatus = "stopped_registration_error"
	jobStatusStoppedCreateErr jobStatus = "stopped_creation_error"
)

func NewManager() *Manager {
	mgr := &Manager{
		Logger: logger.New().With(
			slog.String("component", "job manager"),
		),
		Out:      io.Discard,
		FileLock: noop{},

		confGroupCache: confgroup.NewCache(),

		runningJobs:  newRunningJobsCache(),
		retryingJobs: newRetryingJobsCache(),

		addCh:    make(chan confgroup.Config),
		removeCh: make(chan confgroup.Config),
	}

	return mgr
}

type Manager struct {
	*logger.Logger

	PluginName string
	Out        io.Writer
	Modules    module.Registry

	FileLock FileLocker

	confGroupCache *confgroup.Cache
	runningJobs    *runningJobsCache
	retryingJobs   *retryingJobsCache

	addCh    chan confgroup.Config
	removeCh chan confgroup.Config

	queueMux sync.Mutex
	queue    []Job
}

func (m *Manager) Run(ctx context.Context, in chan []*confgroup.Group) {
	m.Info("instance is started")
	defer func() { m.cleanup(); m.Info("instance is stopped") }()

	var wg sync.WaitGroup

	wg.Add(1)
	go func() { defer wg.Done(); m.runConfigGroupsHandling(ctx, in) }()

	wg.Add(1)
	go func() { defer wg.Done(); m.runConfigsHandling(ctx) }()

	wg.Add(1)
	go func() { defer wg.Done(); m.runRunningJobsHandling(ctx) }()

	wg.Wait()
	<-ctx.Done()
}

func (m *Manager) runConfigGroupsHandling(ctx context.Context, in chan []*confgroup.Group) {
	for {
		select {
		case <-ctx.Done():
			return
		case groups := <-in:
			for _, gr := range groups {
				select {
				case <-ctx.Done():
					return
				default:
					a, r := m.confGroupCache.Add(gr)
					m.Debugf("received config group ('%s'): %d jobs (added: %d, removed: %d)", gr.Source, len(gr.Configs), len(a), len(r))
					sendConfigs(ctx, m.removeCh, r)
					sendConfigs(ctx, m.addCh, a)
				}
			}
		}
	}
}

func (m *Manager) runConfigsHandling(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case cfg := <-m.addCh:
			m.addConfig(ctx, cfg)
		case cfg := <-m.removeCh:
			m.removeConfig(cfg)
		}
	}
}

func (m *Manager) cleanup() {
	for _, task := range *m.retryingJobs {
		task.cancel()
	}
	for name := range *m.runningJobs {
		m.FileLock.Unlock(name)
	}
	m.stopRunningJobs()
}

func (m *Manager) addConfig(ctx context.Context, cfg confgroup.Config) {
	task, isRetry := m.retryingJobs.lookup(cfg)
	if isRetry {
		task.cancel()
		m.retryingJobs.remove(cfg)
	}

	if m.runningJobs.has(cfg) {
		m.Infof("%s[%s] job is being served by another job, skipping it", cfg.Module(), cfg.Name())
		return
	}

	job, err := m.createJob(cfg)
	if err != nil {
		m.Warningf("couldn't create %s[%s]: %v", cfg.Module(), cfg.Name(), err)
		return
	}

	cleanupJob := true
	defer func() {
		if cleanupJob {
			job.Cleanup()
		}
	}()

	if isRetry {
		job.AutoDetectEvery = task.timeout
		job.AutoDetectTries = task.retries
	}

	switch detection(job) {
	case jobStatusRunning:
		if ok, err := m.FileLock.Lock(cfg.FullName()); ok || err != nil && !isTooManyOpenFiles(err) {
			cleanupJob = false
			m.runningJobs.put(cfg)
			m.startJob(job)
		} else if isTooManyOpenFiles(err) {
			m.Error(err)
		} else {
			m.Infof("%s[%s] job is being served by another plugin, skipping it", cfg.Module(), cfg.Name())
		}
	case jobStatusRetrying:
		m.Infof("%s[%s] job detection failed, will retry in %d seconds", cfg.Module(), cfg.Name(), job.AutoDetectionEvery())
		ctx, cancel := context.WithCancel(ctx)
		m.retryingJobs.put(cfg, retryTask{
			cancel:  cancel,
			timeout: job.AutoDetectionEvery(),
			retries: job.AutoDetectTries,
		})
		go runRetryTask(ctx, m.addCh, cfg, time.Second*time.Duration(job.AutoDetectionEvery()))
	case jobStatusStoppedFailed:
		m.Infof("%s[%s] job detection failed, stopping it", cfg.Module(), cfg.Name())
	default:
		m.Warningf("%s[%s] job detection: unknown state", cfg.Module(), cfg.Name())
	}
}

func (m *Manager) removeConfig(cfg confgroup.Config) {
	if m.runningJobs.has(cfg) {
		m.stopJob(cfg.FullName())
		m.FileLock.Unlock(cfg.FullName())
		m.runningJobs.remove(cfg)
	}

	if task, ok := m.retryingJobs.lookup(cfg); ok {
		task.cancel()
		m.retryingJobs.remove(cfg)
	}
}

func (m *Manager) createJob(cfg confgroup.Config) (*module.Job, error) {
	creator, ok := m.Modules[cfg.Module()]
	if !ok {
		return nil, fmt.Errorf("can not find %s module", cfg.Module())
	}

	m.Debugf("creating %s[%s] job, config: %v", cfg.Module(), cfg.Name(), cfg)

	mod := creator.Create()
	if err := applyConfig(cfg, mod); err != nil {
		return nil, err
	}

	labels := make(map[string]string)
	for name, value := range cfg.Labels() {
		if v, ok := value.(string); ok {
			labels[name] = v
		}
	}

	jobCfg := module.JobConfig{
		PluginName:      m.PluginName,
		Name:            cfg.Name(),
		ModuleName:      cfg.Module(),
		FullName:        cfg.FullName(),
		UpdateEvery:     cfg.UpdateEvery(),
		AutoDetectEvery: cfg.AutoDetectionRetry(),
		Priority:        cfg.Priority(),
		Labels:          labels,
		IsStock:         cfg.SourceType() == confgroup.TypeStock,
		Module:          mod,
		Out:             m.Out,
	}

	job := module.NewJob(jobCfg)

	return job, nil
}

func detection(job Job) jobStatus {
	if err := job.AutoDetection(); err != nil {
		if job.RetryAutoDetection() {
			return jobStatusRetrying
		}
		return jobStatusStoppedFailed
	}
	return jobStatusRunning
}

func runRetryTask(ctx context.Context, out chan<- confgroup.Config, cfg confgroup.Config, timeout time.Duration) {
	t := time.NewTimer(timeout)
	defer t.Stop()

	select {
	case <-ctx.Done():
	case <-t.C:
		sendConfig(ctx, out, cfg)
	}
}

func sendConfigs(ctx context.Context, out chan<- confgroup.Config, cfgs []confgroup.Config) {
	for _, cfg := range cfgs {
		sendConfig(ctx, out, cfg)
	}
}

func sendConfig(ctx context.Context, out chan<- confgroup.Config, cfg confgroup.Config) {
	select {
	case <-ctx.Done():
		return
	case out <- cfg:
	}
}

// applyConfig copies job config values into the module configuration
// via a yaml round trip.
func applyConfig(cfg confgroup.Config, mod module.Module) error {
	bs, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(bs, mod)
}

func isTooManyOpenFiles(err error) bool {
	return err != nil && strings.Contains(err.Error(), "too many open files")
}
