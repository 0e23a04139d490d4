package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"go.uber.org/zap"
)

// zapLogFormatter plugs zap into chi's RequestLogger.
type zapLogFormatter struct {
	logger *zap.Logger
}

func (f *zapLogFormatter) NewLogEntry(r *http.Request) middleware.LogEntry {
	return &zapLogEntry{
		logger: f.logger.With(
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
		),
	}
}

type zapLogEntry struct {
	logger *zap.Logger
}

func (e *zapLogEntry) Write(status, bytes int, header http.Header, elapsed time.Duration, extra interface{}) {
	e.logger.Info("request",
		zap.Int("status", status),
		zap.Int("bytes", bytes),
		zap.Duration("duration", elapsed),
	)
}

func (e *zapLogEntry) Panic(v interface{}, stack []byte) {
	e.logger.Error("panic",
		zap.Any("panic", v),
		zap.ByteString("stack", stack),
	)
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return middleware.RequestLogger(&zapLogFormatter{logger: logger})
}

func requestFields(r *http.Request, err error) []zap.Field {
	return []zap.Field{
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	}
}
