//go:build cgo

package db

import _ "github.com/mattn/go-sqlite3"

// driverName selects the cgo sqlite3 driver when a C toolchain is
// available at build time, since it's measurably faster than the pure-Go
// driver for write-heavy workloads like the delivery queue.
const driverName = "sqlite3"
