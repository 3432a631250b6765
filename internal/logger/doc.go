// Package logger wraps zap with a process-wide sugared logger.
//
// The console encoder writes to stderr so command output on stdout can be piped.
// Configure takes the textual level from the YAML config or the WPBT_LOG_LEVEL
// environment variable. Request-scoped loggers travel in a context.Context
// (ToContext, FromContext, WithName, WithFields) and the level helpers
// such as InfoKV or Errorf always log through the context's logger.
package logger
