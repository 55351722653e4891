package middleware

import (
	"net/http"
	"time"

	"minbar/internal/logger"
	"minbar/internal/reqctx"

	"go.uber.org/zap"
)

// Logging writes one access log line per request. It must wrap SessionLoader
// so the user id is known by the time the line is written.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		lrw := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(lrw, r)

		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", lrw.statusCode),
			zap.Duration("duration", time.Since(start)),
		}
		if rid, ok := reqctx.GetRequestID(r.Context()); ok {
			fields = append(fields, zap.String("request_id", rid))
		}
		if uid := lrw.userID; uid != 0 {
			fields = append(fields, zap.Int64("user_id", uid))
		}

		logger.Log.Info("HTTP request", fields...)
	})
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
	userID     int64
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

// noteUser lets inner middleware report the authenticated user back up.
func noteUser(w http.ResponseWriter, id int64) {
	if lrw, ok := w.(*loggingResponseWriter); ok {
		lrw.userID = id
	}
}
