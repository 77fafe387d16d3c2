package monitoring

import (
	"log/slog"
	"os"
	"time"
)

// Logger provides structured JSON logging with request helpers.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a JSON logger writing to stdout at the given level.
func NewLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{
					Key:   "timestamp",
					Value: slog.StringValue(a.Value.Time().Format(time.RFC3339)),
				}
			}
			return a
		},
	})
	return &Logger{Logger: slog.New(handler)}
}

// RequestLogger logs one completed HTTP request.
func (l *Logger) RequestLogger(method, path, ip string, statusCode int, duration time.Duration) {
	l.Info("http request",
		"method", method,
		"path", path,
		"ip", ip,
		"status_code", statusCode,
		"duration_ms", duration.Milliseconds(),
	)
}

// PredictionLogger logs one served prediction.
func (l *Logger) PredictionLogger(id string, prediction float64, duration time.Duration) {
	l.Info("prediction served",
		"id", id,
		"prediction", prediction,
		"duration_ms", duration.Milliseconds(),
	)
}
