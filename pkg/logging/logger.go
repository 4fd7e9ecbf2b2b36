package logging

import (
	"log"
	"os"
)

var (
	InfoLogger  *log.Logger
	ErrorLogger *log.Logger
	AuditLogger *log.Logger
)

// InitLogging initializes logging
func InitLogging() {
	InfoLogger = log.New(os.Stdout, "INFO: ", log.Ldate|log.Ltime|log.Lshortfile)
	ErrorLogger = log.New(os.Stderr, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)
	AuditLogger = log.New(os.Stdout, "AUDIT: ", log.Ldate|log.Ltime)
}

// Infof logs info level messages
func Infof(format string, v ...interface{}) {
	if InfoLogger != nil {
		InfoLogger.Printf(format, v...)
	}
}

// Errorf logs error level messages
func Errorf(format string, v ...interface{}) {
	if ErrorLogger != nil {
		ErrorLogger.Printf(format, v...)
	}
}

// Event records a lifecycle event on the audit log.
// Transaction status transitions go through here so they are traceable
// after the fact, not just visible in debug output.
func Event(event, key, detail string) {
	if AuditLogger != nil {
		AuditLogger.Printf("%s key=%s %s", event, key, detail)
	}
}
