package logger

import (
	"fmt"
	"log"
	"os"
	"strings"
)

// Logger is the leveled logger the service layer writes through. Fields are
// alternating key/value pairs appended to the message as key=value.
type Logger interface {
	Info(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Error(msg string, err error, fields ...interface{})
	Debug(msg string, fields ...interface{})
	Fatal(msg string, err error, fields ...interface{})
}

// componentLogger tags every line with the component that emitted it, so
// interleaved request and rescoring-pipeline output stays attributable.
type componentLogger struct {
	component string
	out       *log.Logger
	err       *log.Logger
}

// New creates a logger for one component ("analysis", "insights", ...).
func New(component string) Logger {
	return &componentLogger{
		component: component,
		out:       log.New(os.Stdout, "", log.Ldate|log.Ltime),
		err:       log.New(os.Stderr, "", log.Ldate|log.Ltime),
	}
}

func (l *componentLogger) Info(msg string, fields ...interface{}) {
	l.out.Printf("INFO  [%s] %s%s", l.component, msg, formatFields(fields))
}

func (l *componentLogger) Warn(msg string, fields ...interface{}) {
	l.out.Printf("WARN  [%s] %s%s", l.component, msg, formatFields(fields))
}

func (l *componentLogger) Error(msg string, err error, fields ...interface{}) {
	l.err.Printf("ERROR [%s] %s: %v%s", l.component, msg, err, formatFields(fields))
}

func (l *componentLogger) Debug(msg string, fields ...interface{}) {
	l.out.Printf("DEBUG [%s] %s%s", l.component, msg, formatFields(fields))
}

// Fatal logs the error and exits the process
func (l *componentLogger) Fatal(msg string, err error, fields ...interface{}) {
	l.err.Fatalf("FATAL [%s] %s: %v%s", l.component, msg, err, formatFields(fields))
}

// formatFields renders alternating key/value pairs as " key=value". An odd
// trailing key is printed bare rather than dropped.
func formatFields(fields []interface{}) string {
	if len(fields) == 0 {
		return ""
	}
	var b strings.Builder
	for i := 0; i < len(fields); i += 2 {
		if i+1 < len(fields) {
			fmt.Fprintf(&b, " %v=%v", fields[i], fields[i+1])
		} else {
			fmt.Fprintf(&b, " %v", fields[i])
		}
	}
	return b.String()
}
