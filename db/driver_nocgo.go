//go:build !cgo

package db

import _ "modernc.org/sqlite"

// driverName falls back to the pure-Go driver for cross-compiled or
// cgo-disabled builds.
const driverName = "sqlite"
