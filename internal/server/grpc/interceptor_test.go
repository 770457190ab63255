package grpc

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/dmitrijs2005/lingobook/internal/common"
	"github.com/dmitrijs2005/lingobook/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type recordingLogger struct {
	nopLogger
	entries *[]logEntry
}

type logEntry struct {
	level string
	args  []any
}

func (r recordingLogger) Debug(_ context.Context, _ string, args ...any) {
	*r.entries = append(*r.entries, logEntry{"debug", args})
}

func (r recordingLogger) Warn(_ context.Context, _ string, args ...any) {
	*r.entries = append(*r.entries, logEntry{"warn", args})
}

func (r recordingLogger) With(...any) logging.Logger { return r }

func field(args []any, key string) any {
	for i := 0; i+1 < len(args); i += 2 {
		if args[i] == key {
			return args[i+1]
		}
	}
	return nil
}

func TestInterceptor_LogsSuccess(t *testing.T) {
	var entries []logEntry
	s := NewGRPCServer("", recordingLogger{entries: &entries})

	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(requestIDKey, "req-1"))
	info := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}
	h := func(ctx context.Context, req any) (any, error) { return "ok", nil }

	resp, err := s.loggingInterceptor(ctx, nil, info, h)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp != "ok" {
		t.Fatalf("unexpected handler resp: %v", resp)
	}
	if len(entries) != 1 || entries[0].level != "debug" {
		t.Fatalf("expected one debug entry, got %+v", entries)
	}
	if got := field(entries[0].args, "request_id"); got != "req-1" {
		t.Fatalf("request_id = %v", got)
	}
	if got := field(entries[0].args, "code"); got != codes.OK.String() {
		t.Fatalf("code = %v", got)
	}
}

func TestInterceptor_MapsErrors(t *testing.T) {
	var entries []logEntry
	s := NewGRPCServer("", recordingLogger{entries: &entries})
	info := &grpc.UnaryServerInfo{FullMethod: "/svc/M"}

	_, err := s.loggingInterceptor(context.Background(), nil, info, func(context.Context, any) (any, error) {
		return nil, fmt.Errorf("book 3: %w", common.ErrorNotFound)
	})
	if status.Code(err) != codes.NotFound {
		t.Fatalf("code = %v, want NotFound", status.Code(err))
	}
	if len(entries) != 1 || entries[0].level != "warn" {
		t.Fatalf("expected one warn entry, got %+v", entries)
	}
}

func TestToStatus(t *testing.T) {
	tests := []struct {
		err  error
		want codes.Code
	}{
		{nil, codes.OK},
		{common.ErrorNotFound, codes.NotFound},
		{common.ErrorUnauthorized, codes.Unauthenticated},
		{common.ErrInvalidToken, codes.Unauthenticated},
		{common.ErrorValidation, codes.InvalidArgument},
		{common.ErrorOutOfRange, codes.OutOfRange},
		{common.ErrorAlreadyExists, codes.AlreadyExists},
		{status.Error(codes.Unavailable, "later"), codes.Unavailable},
		{errors.New("boom"), codes.Internal},
	}
	for _, tt := range tests {
		if got := status.Code(toStatus(tt.err)); got != tt.want {
			t.Errorf("toStatus(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}

	if msg := status.Convert(toStatus(errors.New("secret detail"))).Message(); msg != "internal error" {
		t.Errorf("internal error leaks message %q", msg)
	}
}
