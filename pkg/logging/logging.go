// Package logging is a small, package-level leveled logger matching the
// API surface of third_party/forked/golang/glog/pplog.go: one boolean
// verbosity gate per level (LOG_ERROR, LOG_WARN, LOG_INFO, LOG_DEBUG),
// plain package-level Errorf/Warningf/Infof/Debugf functions rather than
// an injected logger instance, checked before formatting so a disabled
// level costs nothing but the branch.
//
// pplog.go's own writer sits on a buffered channel, a buffer pool, and
// file rotation (logging.print/printf/println, buffer, infoLog) that
// none of this source tree's retrieved files include alongside
// pplog.go itself — only the gated API surface above it is present, not
// the machinery underneath. Rather than invent that missing machinery,
// the writer here is built directly on the standard library's
// log.Logger. This is the one concern in this module resting on the
// standard library instead of a third-party package; the justification
// is that no faithful third-party implementation of that writer is
// available to ground it on.
package logging

import (
	"fmt"
	"log"
	"os"
)

type Verbose bool

// Level gates, named and defaulted exactly as in the fork: errors,
// warnings and info print by default, debug and verbose do not.
var (
	LOG_ERROR   Verbose = true
	LOG_WARN    Verbose = true
	LOG_INFO    Verbose = true
	LOG_DEBUG   Verbose = false
	LOG_VERBOSE Verbose = false
)

var std = log.New(os.Stderr, "", log.LstdFlags)

// SetVerbosity turns on or off the two optional levels, mirroring the
// fork's InitLogging translating a configured level name into gates.
func SetVerbosity(debug, verbose bool) {
	LOG_DEBUG = Verbose(debug)
	LOG_VERBOSE = Verbose(verbose)
}

func Errorf(format string, args ...interface{}) {
	if LOG_ERROR {
		std.Output(2, "ERROR "+fmt.Sprintf(format, args...))
	}
}

func Warningf(format string, args ...interface{}) {
	if LOG_WARN {
		std.Output(2, "WARN "+fmt.Sprintf(format, args...))
	}
}

func Infof(format string, args ...interface{}) {
	if LOG_INFO {
		std.Output(2, "INFO "+fmt.Sprintf(format, args...))
	}
}

func Debugf(format string, args ...interface{}) {
	if LOG_DEBUG {
		std.Output(2, "DEBUG "+fmt.Sprintf(format, args...))
	}
}

func Verbosef(format string, args ...interface{}) {
	if LOG_VERBOSE {
		std.Output(2, "VERBOSE "+fmt.Sprintf(format, args...))
	}
}
