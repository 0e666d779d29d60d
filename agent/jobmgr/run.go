// SPDX-License-Identifier: GPL-3.0-or-later

package jobmgr

import (
	"context"
	"slices"
	"time"

	"github.com/mailops/exchange-agent/agent/ticker"
)

// runRunningJobsHandling ticks every second and fans the clock out to
// all running jobs, each job decides itself whether it is due.
func (m *Manager) runRunningJobsHandling(ctx context.Context) {
	tk := ticker.New(time.Second)
	defer tk.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case clock := <-tk.C:
			m.notifyRunningJobs(clock)
		}
	}
}

func (m *Manager) notifyRunningJobs(clock int) {
	m.queueMux.Lock()
	defer m.queueMux.Unlock()

	for _, job := range m.queue {
		job.Tick(clock)
	}
}

func (m *Manager) startJob(job Job) {
	m.queueMux.Lock()
	defer m.queueMux.Unlock()

	go job.Start()

	m.queue = append(m.queue, job)
}

func (m *Manager) stopJob(name string) {
	m.queueMux.Lock()
	defer m.queueMux.Unlock()

	idx := slices.IndexFunc(m.queue, func(job Job) bool {
		return job.FullName() == name
	})
	if idx == -1 {
		return
	}

	m.queue[idx].Stop()

	copy(m.queue[idx:], m.queue[idx+1:])
	m.queue[len(m.queue)-1] = nil
	m.queue = m.queue[:len(m.queue)-1]
}

func (m *Manager) stopRunningJobs() {
	m.queueMux.Lock()
	defer m.queueMux.Unlock()

	for i, job := range m.queue {
		job.Stop()
		m.queue[i] = nil
	}
	m.queue = m.queue[:0]
}
