// Package grpccorrelation adapts correlation identifier propagation to gRPC,
// where the request/response model is metadata rather than HTTP headers.
package grpccorrelation

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/Station-Manager/logging/correlation"
)

// MetadataKey is the metadata key carrying the correlation identifier.
// Metadata keys are normalized to lowercase on the wire, so lookups are
// effectively case-insensitive.
const MetadataKey = "x-correlation-id"

type config struct {
	serviceName string
	enabled     bool
}

// Option configures the server interceptors.
type Option func(*config)

func applyOptions(opts []Option) config {
	cfg := config{enabled: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithServiceName sets the service name recorded on every RequestContext
// installed by the interceptors.
func WithServiceName(name string) Option {
	return func(cfg *config) {
		cfg.serviceName = name
	}
}

// Disabled keeps the interceptors in place but installs an empty identifier
// and neither reads nor writes metadata.
func Disabled() Option {
	return func(cfg *config) {
		cfg.enabled = false
	}
}

func fromIncoming(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get(MetadataKey)
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// annotate resolves the identifier for an inbound RPC and installs the
// RequestContext. With correlation disabled the context is still installed,
// carrying an empty identifier.
func annotate(ctx context.Context, cfg config) context.Context {
	id := ""
	if cfg.enabled {
		id = correlation.ResolveID(fromIncoming(ctx))
	}
	return correlation.ContextWithRequest(ctx, &correlation.RequestContext{
		CorrelationID: id,
		ServiceName:   cfg.serviceName,
	})
}

// UnaryServerInterceptor resolves or generates a correlation identifier for
// every unary RPC, installs it on the handler context, and echoes it in the
// response header metadata. It never fails the RPC on its own: a header-send
// failure is ignored and handler errors pass through unchanged.
func UnaryServerInterceptor(opts ...Option) grpc.UnaryServerInterceptor {
	cfg := applyOptions(opts)

	return func(ctx context.Context, req interface{}, _ *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		ctx = annotate(ctx, cfg)
		if id := correlation.ExtractCorrelationID(ctx); id != "" {
			_ = grpc.SetHeader(ctx, metadata.Pairs(MetadataKey, id))
		}
		return handler(ctx, req)
	}
}

// StreamServerInterceptor is the streaming counterpart of
// UnaryServerInterceptor.
func StreamServerInterceptor(opts ...Option) grpc.StreamServerInterceptor {
	cfg := applyOptions(opts)

	return func(srv interface{}, ss grpc.ServerStream, _ *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		ctx := annotate(ss.Context(), cfg)
		if id := correlation.ExtractCorrelationID(ctx); id != "" {
			_ = ss.SetHeader(metadata.Pairs(MetadataKey, id))
		}
		return handler(srv, &wrappedServerStream{ServerStream: ss, ctx: ctx})
	}
}

// wrappedServerStream overrides Context so stream handlers see the annotated
// request context.
type wrappedServerStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (w *wrappedServerStream) Context() context.Context {
	return w.ctx
}

// UnaryClientInterceptor passes the current correlation identifier to the
// callee via outgoing metadata. RPCs whose context carries no identifier are
// sent untouched.
func UnaryClientInterceptor() grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		if id := correlation.ExtractCorrelationID(ctx); id != "" {
			ctx = metadata.AppendToOutgoingContext(ctx, MetadataKey, id)
		}
		return invoker(ctx, method, req, reply, cc, opts...)
	}
}

// StreamClientInterceptor is the streaming counterpart of
// UnaryClientInterceptor.
func StreamClientInterceptor() grpc.StreamClientInterceptor {
	return func(ctx context.Context, desc *grpc.StreamDesc, cc *grpc.ClientConn, method string, streamer grpc.Streamer, opts ...grpc.CallOption) (grpc.ClientStream, error) {
		if id := correlation.ExtractCorrelationID(ctx); id != "" {
			ctx = metadata.AppendToOutgoingContext(ctx, MetadataKey, id)
		}
		return streamer(ctx, desc, cc, method, opts...)
	}
}
