package logging

import (
	"log"
	"sync/atomic"
)

var debug atomic.Bool

// SetDebug turns debug logging on or off.
func SetDebug(on bool) { debug.Store(on) }

// Debugf logs a formatted debug message when debug logging is enabled.
func Debugf(format string, v ...any) {
	if debug.Load() {
		log.Printf("DEBUG: "+format, v...)
	}
}
