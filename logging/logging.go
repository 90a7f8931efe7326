// Licensed under the Apache License, Version 2.0
// Details: https://raw.githubusercontent.com/square/flowlimit/master/LICENSE

// Package logging provides a swappable logging facade so that embedders can
// plug in their own logger. Golang's standard logger is used by default.
package logging

import (
	"log"
	"os"
)

var logger Logger = log.New(os.Stderr, "", log.LstdFlags)

// Logger mimics golang's standard Logger as an interface.
type Logger interface {
	Fatal(args ...interface{})
	Fatalf(format string, args ...interface{})
	Fatalln(args ...interface{})
	Print(args ...interface{})
	Printf(format string, args ...interface{})
	Println(args ...interface{})
}

// SetLogger sets the logger to be used
func SetLogger(l Logger) {
	logger = l
}

// CurrentLogger gets the logger to be used
func CurrentLogger() Logger {
	return logger
}

// Fatal is equivalent to Print() followed by a call to os.Exit() with a non-zero exit code.
func Fatal(args ...interface{}) {
	logger.Fatal(args...)
}

// Fatalf is equivalent to Printf() followed by a call to os.Exit() with a non-zero exit code.
func Fatalf(format string, args ...interface{}) {
	logger.Fatalf(format, args...)
}

// Fatalln is equivalent to Println() followed by a call to os.Exit() with a non-zero exit code.
func Fatalln(args ...interface{}) {
	logger.Fatalln(args...)
}

// Print prints to the logger. Arguments are handled in the manner of fmt.Print.
func Print(args ...interface{}) {
	logger.Print(args...)
}

// Printf prints to the logger. Arguments are handled in the manner of fmt.Printf.
func Printf(format string, args ...interface{}) {
	logger.Printf(format, args...)
}

// Println prints to the logger. Arguments are handled in the manner of fmt.Println.
func Println(args ...interface{}) {
	logger.Println(args...)
}

// Debugf logs fine-grained diagnostics. These share the underlying logger with
// Printf; the prefix is the only distinction.
func Debugf(format string, args ...interface{}) {
	logger.Printf("DEBUG "+format, args...)
}

// Infof logs informational messages.
func Infof(format string, args ...interface{}) {
	logger.Printf("INFO "+format, args...)
}

// Warnf logs warnings that do not prevent the service from operating.
func Warnf(format string, args ...interface{}) {
	logger.Printf("WARN "+format, args...)
}
