// SPDX-License-Identifier: GPL-3.0-or-later

package buildinfo

// Version is the agent version, injected at build time via -ldflags.
var Version = "v0.0.0"
