// SPDX-License-Identifier: GPL-3.0-or-later

package socket

import (
	"crypto/tls"
	"time"
)

// Processor consumes one response line at a time during Command.
// Returning false stops reading.
type Processor func([]byte) bool

// Client is a line-oriented client over a TCP, UDP or unix socket.
// Connect dials, Disconnect tears the connection down, Send writes
// data, and Command writes data then streams the response lines
// through the processor.
type Client interface {
	Connect() error
	Disconnect() error
	Send(data string) error
	Command(command string, process Processor) error
}

// Config describes the endpoint and timeouts of a Socket. The Address
// scheme (tcp://, udp://, unix://) selects the network; a non-nil
// TLSConf enables TLS for stream sockets.
type Config struct {
	Address        string
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	TLSConf        *tls.Config
}
