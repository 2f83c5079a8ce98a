package interceptors

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"jobboard/internal/logging"
	"jobboard/pkg/utils"
)

// requestID reuses an incoming x-request-id header or generates one
func requestID(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if ids := md.Get("x-request-id"); len(ids) > 0 && ids[0] != "" {
			return ids[0]
		}
	}
	return utils.GenerateRequestID()
}

func statusCode(err error) codes.Code {
	if err == nil {
		return codes.OK
	}
	if s, ok := status.FromError(err); ok {
		return s.Code()
	}
	return codes.Internal
}

func logCall(logger logging.Logger, id, method string, start time.Time, err error) {
	fields := map[string]interface{}{
		"request_id":      id,
		"method":          method,
		"processing_time": time.Since(start).String(),
		"status_code":     statusCode(err).String(),
	}
	if err != nil {
		fields["error"] = err.Error()
		logger.Error("gRPC request failed", fields)
		return
	}
	// health probes arrive every few seconds
	logger.Debug("gRPC request completed", fields)
}

// LoggingInterceptor logs each unary call with its status code and duration
func LoggingInterceptor(logger logging.Logger) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		start := time.Now()
		id := requestID(ctx)

		resp, err := handler(ctx, req)
		logCall(logger, id, info.FullMethod, start, err)
		return resp, err
	}
}

// StreamLoggingInterceptor logs each stream (health Watch, reflection) when it ends
func StreamLoggingInterceptor(logger logging.Logger) grpc.StreamServerInterceptor {
	return func(
		srv interface{},
		ss grpc.ServerStream,
		info *grpc.StreamServerInfo,
		handler grpc.StreamHandler,
	) error {
		start := time.Now()
		id := requestID(ss.Context())

		err := handler(srv, ss)
		logCall(logger, id, info.FullMethod, start, err)
		return err
	}
}
