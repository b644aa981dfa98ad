// Package internal holds shared helpers that are not part of the public API.
package internal

import (
	"log"
	"os"
)

// InitLogging configures the process-wide logger used by the CLI.
func InitLogging() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
}
