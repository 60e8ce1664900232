//go:build linux
// +build linux

package util

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/coreos/go-systemd/v22/journal"
)

type journaldWriter struct{}

func (w *journaldWriter) Write(p []byte) (n int, err error) {
	msg := string(p)
	if len(msg) > 0 && msg[len(msg)-1] == '\n' {
		msg = msg[:len(msg)-1]
	}

	err = journal.Send(msg, journal.PriInfo, map[string]string{
		"SYSLOG_IDENTIFIER": Name,
	})
	if err != nil {
		return fmt.Fprintf(os.Stderr, "%s", p)
	}
	return len(p), nil
}

var logWriter io.Writer = os.Stderr

func GetLogWriter() io.Writer {
	return logWriter
}

// SetupLogging points the standard logger at journald when withJournald is
// set and journald is actually available, falling back to stderr otherwise.
func SetupLogging(withJournald bool) {
	if !withJournald {
		return
	}
	if !journal.Enabled() {
		log.Println("journald requested but not available; using standard logging")
		return
	}

	writer := &journaldWriter{}
	logWriter = writer
	log.SetOutput(writer)
	log.SetFlags(0)
	log.Println("logging initialized with journald support")
}
