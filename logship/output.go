// SPDX-License-Identifier: GPL-3.0-or-later

package logship

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mailops/exchange-agent/pkg/socket"
)

// Event is a single log line read from a tailed file.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source,omitempty"`
	Service   string    `json:"service,omitempty"`
	Path      string    `json:"path"`
	Message   string    `json:"message"`
}

// Output delivers events one by one. Implementations are not required to be
// safe for concurrent use, the manager writes from a single goroutine.
type Output interface {
	Write(ev Event) error
	Close() error
}

// newOutput creates an output for the given address. Addresses with a
// 'tcp://', 'udp://' or 'unix://' scheme are sockets, anything else is a
// path to a spool file.
func newOutput(addr string) (Output, error) {
	switch {
	case addr == "":
		return nil, errors.New("output address not set")
	case strings.HasPrefix(addr, "tcp://"),
		strings.HasPrefix(addr, "udp://"),
		strings.HasPrefix(addr, "unix://"):
		return newSocketOutput(addr), nil
	default:
		return newFileOutput(addr)
	}
}

type fileOutput struct {
	file *os.File
}

func newFileOutput(path string) (*fileOutput, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0640)
	if err != nil {
		return nil, fmt.Errorf("open output file: %w", err)
	}
	return &fileOutput{file: f}, nil
}

func (o *fileOutput) Write(ev Event) error {
	bs, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_, err = o.file.Write(append(bs, '\n'))
	return err
}

func (o *fileOutput) Close() error {
	return o.file.Close()
}

type socketOutput struct {
	client    *socket.Socket
	connected bool
}

func newSocketOutput(addr string) *socketOutput {
	return &socketOutput{
		client: socket.New(socket.Config{
			Address:        addr,
			ConnectTimeout: time.Second * 5,
			WriteTimeout:   time.Second * 5,
		}),
	}
}

func (o *socketOutput) Write(ev Event) error {
	bs, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	if !o.connected {
		if err := o.client.Connect(); err != nil {
			return fmt.Errorf("connect to '%s': %w", o.client.Address, err)
		}
		o.connected = true
	}

	if err := o.client.Send(string(bs) + "\n"); err != nil {
		// drop the connection, the next write reconnects
		_ = o.client.Disconnect()
		o.connected = false
		return err
	}

	return nil
}

func (o *socketOutput) Close() error {
	if !o.connected {
		return nil
	}
	o.connected = false
	return o.client.Disconnect()
}
