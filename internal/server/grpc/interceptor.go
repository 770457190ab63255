package grpc

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const requestIDKey = "x-request-id"

// loggingInterceptor logs every unary call and turns service errors into
// gRPC statuses.
func (s *GRPCServer) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()

	var requestID string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(requestIDKey); len(values) > 0 {
			requestID = values[0]
		}
	}

	resp, err := handler(ctx, req)
	err = toStatus(err)

	fields := []any{
		"method", info.FullMethod,
		"code", status.Code(err).String(),
		"duration_ms", time.Since(start).Milliseconds(),
	}
	if requestID != "" {
		fields = append(fields, "request_id", requestID)
	}
	if err != nil {
		s.logger.Warn(ctx, "grpc call", append(fields, "error", err)...)
	} else {
		s.logger.Debug(ctx, "grpc call", fields...)
	}
	return resp, err
}
