package logger

import (
	"log"
	"time"
)

// Debug logs a debug message with consistent format
// Format: [DEBUG] timestamp=... action=... details=...
func Debug(action, details string) {
	timestamp := time.Now().Format(time.RFC3339)
	log.Printf("[DEBUG] timestamp=%s action=%s details=%s", timestamp, action, details)
}

// Error logs an operation failure in the same key=value format
func Error(action string, err error) {
	timestamp := time.Now().Format(time.RFC3339)
	log.Printf("[ERROR] timestamp=%s action=%s error=%s", timestamp, action, err.Error())
}
