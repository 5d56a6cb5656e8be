// Package logging provides structured logging utilities for the inboxpilot application.
//
// This package centralizes logging patterns to ensure consistent, structured logging
// throughout the codebase using the standard library's slog package.
//
// # Key Features
//
//   - Structured logging with slog
//   - PII sanitization (email anonymization)
//   - Consistent attribute naming across the codebase
//
// # Usage Patterns
//
// Create a logger with standard attributes:
//
//	logger := logging.WithComponent(slog.Default(), "classifier")
//	logger.Info("classification applied",
//	    logging.MessageID(msg.ID))
//
// Sanitize sensitive data before logging:
//
//	logger.Info("message triaged",
//	    logging.SenderHash(msg.From))
//
// # Security Considerations
//
// This package is designed with security in mind:
//   - Sender addresses are hashed to prevent PII leakage while allowing correlation
//   - Tokens and message bodies are never logged directly
package logging
