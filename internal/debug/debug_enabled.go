//go:build debug

// Package debug provides a gated logger for the VFS callback surface and
// the signed-request path. Built with -tags debug it writes one line per
// call, prefixed with the caller's file and line, to stderr or to the
// file named by $DEBUG_LOG; without that build tag Log is a no-op that
// costs nothing at the call site.
package debug

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
)

var logger = initLogger()

func initLogger() *log.Logger {
	debugfile := os.Getenv("DEBUG_LOG")
	if debugfile == "" {
		return log.New(os.Stderr, "DEBUG ", log.LstdFlags)
	}

	f, err := os.OpenFile(debugfile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "debug: unable to open DEBUG_LOG %q: %v\n", debugfile, err)
		os.Exit(2)
	}

	return log.New(f, "DEBUG ", log.LstdFlags)
}

// Log writes a formatted debug line tagged with the caller's file and
// line.
func Log(f string, args ...interface{}) {
	_, file, line, ok := runtime.Caller(1)
	pos := "?:0"
	if ok {
		pos = fmt.Sprintf("%s:%d", filepath.Base(file), line)
	}

	logger.Printf("%s\t"+f, append([]interface{}{pos}, args...)...)
}
