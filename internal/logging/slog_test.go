package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	grpclog "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	"github.com/stretchr/testify/assert"
)

func newTestLogger(t *testing.T) (*SlogLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	return New(int(slog.LevelDebug), &buf), &buf
}

func TestSlogLogger_Levels(t *testing.T) {
	log, buf := newTestLogger(t)
	ctx := context.Background()

	log.Debug(ctx, "dbg", "a", 1)
	log.Info(ctx, "inf", "b", 2)
	log.Warn(ctx, "wrn", "c", 3)
	log.Error(ctx, "err", "d", 4)

	out := buf.String()
	for _, want := range []string{
		"level=DEBUG", "msg=dbg", "a=1",
		"level=INFO", "msg=inf", "b=2",
		"level=WARN", "msg=wrn", "c=3",
		"level=ERROR", "msg=err", "d=4",
	} {
		assert.Contains(t, out, want)
	}
}

func TestSlogLogger_With_AddsAttributes(t *testing.T) {
	log, buf := newTestLogger(t)

	log.With("attempt", 7, "trace_id", "abc").Info(context.Background(), "hello", "k", "v")

	out := buf.String()
	for _, want := range []string{"msg=hello", "attempt=7", "trace_id=abc", "k=v"} {
		assert.Contains(t, out, want)
	}
}

func TestNew_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(int(slog.LevelWarn), &buf)

	log.Info(context.Background(), "hidden")
	log.Warn(context.Background(), "shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNoop_DoesNotPanic(t *testing.T) {
	log := Noop()
	ctx := context.TODO()
	log.Debug(ctx, "x")
	log.Error(ctx, "x")
	log.With("k", "v").Warn(ctx, "x")
}

func TestGRPCLogger_MapsLevels(t *testing.T) {
	log, buf := newTestLogger(t)
	gl := GRPCLogger(log)
	ctx := context.Background()

	gl.Log(ctx, grpclog.LevelDebug, "started call", "grpc.method", "Login")
	gl.Log(ctx, grpclog.LevelError, "finished call", "grpc.code", "Unavailable")

	out := buf.String()
	assert.Contains(t, out, `level=DEBUG msg="started call" grpc.method=Login`)
	assert.Contains(t, out, `level=ERROR msg="finished call" grpc.code=Unavailable`)
}
