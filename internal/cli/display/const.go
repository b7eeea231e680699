// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package display

const (
	Tool   = "portctl"
	Banner = `
                    _       _   _
  _ __   ___  _ __| |_ ___| |_| |
 | '_ \ / _ \| '__| __/ __| __| |
 | |_) | (_) | |  | || (__| |_| |
 | .__/ \___/|_|   \__\___|\__|_|
 |_|                         vversion
`
	DocRoot = "https://docs.port.io"
	CodeURL = "https://github.com/platform-engineering-labs/portctl"
)
