// Package logger is a thin leveled wrapper around the standard log package.
package logger

import "log"

const (
	fatalLabel = "[FATAL] "
	errorLabel = "[ERROR] "
	warnLabel  = "[WARN ] "
	infoLabel  = "[INFO ] "
	debugLabel = "[DEBUG] "
)

var verbose bool

// SetVerbose enables Debug output. Off by default.
func SetVerbose(v bool) {
	verbose = v
}

// leveled prepends the level string to log.Printf.
// Arguments are handled in the manner of [fmt.Printf].
func leveled(level string, format string, args ...interface{}) {
	log.Printf(level+format, args...)
}

// Fatal calls [log.Fatalf], adding a fatal label.
// Arguments are handled in the manner of [fmt.Printf].
func Fatal(format string, args ...interface{}) {
	log.Fatalf(fatalLabel+format, args...)
}

// Error prints to the standard logger, adding an error label.
// Arguments are handled in the manner of [fmt.Printf].
func Error(format string, args ...interface{}) {
	leveled(errorLabel, format, args...)
}

// Warn prints to the standard logger, adding a warn label.
// Arguments are handled in the manner of [fmt.Printf].
func Warn(format string, args ...interface{}) {
	leveled(warnLabel, format, args...)
}

// Info prints to the standard logger, adding an info label.
// Arguments are handled in the manner of [fmt.Printf].
func Info(format string, args ...interface{}) {
	leveled(infoLabel, format, args...)
}

// Debug prints to the standard logger, adding a debug label.
// Suppressed unless SetVerbose(true) was called.
// Arguments are handled in the manner of [fmt.Printf].
func Debug(format string, args ...interface{}) {
	if !verbose {
		return
	}
	leveled(debugLabel, format, args...)
}
