package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	FieldFileName  = "file_name"
	FieldFileType  = "file_type"
	FieldFileSize  = "file_size"
	FieldRequestID = "request_id"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
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

// UploadFields describes a picked document. The size is always present, the
// name and type only when known.
func UploadFields(name, fileType string, size int64) []zap.Field {
	fields := StringFields(
		StringField{Key: FieldFileName, Value: name},
		StringField{Key: FieldFileType, Value: fileType},
	)
	return append(fields, zap.Int64(FieldFileSize, size))
}

// WithFields attaches fields to the logger, falling back to a no-op logger
// when nil.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}
