package logging

import (
	"context"

	grpclog "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
)

// GRPCLogger adapts l to the go-grpc-middleware logging contract so client
// interceptors report through the same sink as the rest of the app.
func GRPCLogger(l Logger) grpclog.Logger {
	return grpclog.LoggerFunc(func(ctx context.Context, lvl grpclog.Level, msg string, fields ...any) {
		switch lvl {
		case grpclog.LevelDebug:
			l.Debug(ctx, msg, fields...)
		case grpclog.LevelInfo:
			l.Info(ctx, msg, fields...)
		case grpclog.LevelWarn:
			l.Warn(ctx, msg, fields...)
		default:
			l.Error(ctx, msg, fields...)
		}
	})
}
