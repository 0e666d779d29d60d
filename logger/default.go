// SPDX-License-Identifier: GPL-3.0-or-later

package logger

import (
	"log/slog"
)

func newDefault() *Logger {
	if isTerm {
		return &Logger{sl: slog.New(withCallDepth(2, newTerminalHandler()))}
	}
	return &Logger{sl: slog.New(withCallDepth(2, newTextHandler())).With(pluginAttr)}
}

var defLogger = newDefault()
