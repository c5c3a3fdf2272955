package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	FieldService = "service"
	FieldVersion = "version"
	FieldMethod  = "http_method"
	FieldPath    = "http_path"
	FieldStatus  = "http_status"
	FieldLatency = "latency"
	FieldOrigin  = "origin"
	FieldAgent   = "user_agent"

	// maxAgentLength caps user agents in request logs.
	maxAgentLength = 120
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields builds zap string fields, dropping any pair whose trimmed key
// or value is empty. Requests without an Origin header log no origin field.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields scopes logger to a component, such as the HTTP server tagging
// every request entry with its service and version. A nil logger becomes a
// no-op logger so handlers can be built without one in tests.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// ServiceFields names the running service and its version.
func ServiceFields(service, version string) []zap.Field {
	return StringFields(
		StringField{Key: FieldService, Value: service},
		StringField{Key: FieldVersion, Value: version},
	)
}

// RequestFields describes an HTTP request. Origin and user agent are dropped
// when empty; the user agent is truncated.
func RequestFields(method, path, origin, agent string) []zap.Field {
	return StringFields(
		StringField{Key: FieldMethod, Value: method},
		StringField{Key: FieldPath, Value: path},
		StringField{Key: FieldOrigin, Value: origin},
		StringField{Key: FieldAgent, Value: TruncateForLog(agent, maxAgentLength)},
	)
}
