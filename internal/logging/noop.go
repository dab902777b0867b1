package logging

import "context"

// NoOpLogger discards everything; tests use it to keep output quiet
type NoOpLogger struct{}

func NewNoOpLogger() Logger {
	return NoOpLogger{}
}

func (NoOpLogger) Info(string, ...interface{})                         {}
func (NoOpLogger) Warn(string, ...interface{})                         {}
func (NoOpLogger) Error(string, ...interface{})                        {}
func (NoOpLogger) Debug(string, ...interface{})                        {}
func (NoOpLogger) InfoContext(context.Context, string, ...interface{}) {}
func (NoOpLogger) WarnContext(context.Context, string, ...interface{}) {}
func (NoOpLogger) ErrorContext(context.Context, string, ...interface{}) {}
func (NoOpLogger) DebugContext(context.Context, string, ...interface{}) {}

func (n NoOpLogger) WithTraceID(string) Logger   { return n }
func (n NoOpLogger) WithComponent(string) Logger { return n }
