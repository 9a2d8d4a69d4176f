// Package logger provides a plain line logger for user-facing CLI output,
// separate from the structured pipeline logs.
package logger

import (
	"log"
	"os"
)

// New returns a logger prefixing each line with the component name.
func New(component string) *log.Logger {
	return log.New(os.Stdout, component+": ", log.LstdFlags)
}
