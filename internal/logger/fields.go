package logger

import (
	"strings"

	"go.uber.org/zap"
)

// Field keys shared by every command. The backend pair is attached to the
// search generator logger, the requester pair to everything a session logs.
const (
	FieldProvider  = "ai_provider"
	FieldModel     = "ai_model"
	FieldRequester = "requester_id"
	FieldRole      = "requester_role"
)

type StringField struct {
	Key   string
	Value string
}

// StringFields turns key/value pairs into zap fields. Blank keys and blank
// values are skipped so optional ids such as an unset role stay out of the log.
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

// WithFields returns a child logger carrying fields. A nil logger becomes a no-op one.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// BackendFields names the generative backend that resolves search queries.
func BackendFields(provider, model string) []zap.Field {
	return StringFields(
		StringField{Key: FieldProvider, Value: provider},
		StringField{Key: FieldModel, Value: model},
	)
}

// WithBackend tags the search generator logger with its provider and model.
func WithBackend(logger *zap.Logger, provider, model string) *zap.Logger {
	return WithFields(logger, BackendFields(provider, model)...)
}

// WithRequester tags the session logger with the actor browsing the marketplace.
// The eligibility pipeline and decision entries inherit it.
func WithRequester(logger *zap.Logger, id, role string) *zap.Logger {
	return WithFields(logger, StringFields(
		StringField{Key: FieldRequester, Value: id},
		StringField{Key: FieldRole, Value: role},
	)...)
}
