//go:build !linux
// +build !linux

package util

import (
	"io"
	"log"
	"os"
)

var logWriter io.Writer = os.Stderr

func GetLogWriter() io.Writer {
	return logWriter
}

// SetupLogging is a no-op on non-Linux systems, since journald isn't
// available there.
func SetupLogging(withJournald bool) {
	if withJournald {
		log.Println("journald logging is not supported on this operating system; using standard logging")
	}
}
