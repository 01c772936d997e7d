package grpcserver

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"rankd/domain/multiset"
)

// Index is the part of *service.IndexService the server exposes.
type Index interface {
	Insert(ctx context.Context, key int64) (uint64, error)
	Delete(ctx context.Context, key int64) (bool, uint64, error)
	Contains(key int64) bool
	Count() int
	CountOf(key int64) int
	Select(k int) (int64, error)
	Rank(key int64) int
}

// Server adapts an Index to gRPC.
type Server struct {
	idx Index
}

var _ MultisetServer = (*Server)(nil)

func NewServer(idx Index) *Server {
	return &Server{idx: idx}
}

// -------------------- Commands --------------------

func (s *Server) Insert(ctx context.Context, req *wrapperspb.Int64Value) (*wrapperspb.UInt64Value, error) {
	seq, err := s.idx.Insert(ctx, req.GetValue())
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return wrapperspb.UInt64(seq), nil
}

func (s *Server) Delete(ctx context.Context, req *wrapperspb.Int64Value) (*wrapperspb.BoolValue, error) {
	removed, _, err := s.idx.Delete(ctx, req.GetValue())
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return wrapperspb.Bool(removed), nil
}

// -------------------- Queries --------------------

func (s *Server) Contains(_ context.Context, req *wrapperspb.Int64Value) (*wrapperspb.BoolValue, error) {
	return wrapperspb.Bool(s.idx.Contains(req.GetValue())), nil
}

func (s *Server) Count(context.Context, *emptypb.Empty) (*wrapperspb.UInt64Value, error) {
	return wrapperspb.UInt64(uint64(s.idx.Count())), nil
}

func (s *Server) CountOf(_ context.Context, req *wrapperspb.Int64Value) (*wrapperspb.UInt64Value, error) {
	return wrapperspb.UInt64(uint64(s.idx.CountOf(req.GetValue()))), nil
}

func (s *Server) Select(_ context.Context, req *wrapperspb.UInt64Value) (*wrapperspb.Int64Value, error) {
	k := req.GetValue()
	if k > math.MaxInt {
		return nil, status.Errorf(codes.OutOfRange, "k=%d exceeds the index size", k)
	}
	v, err := s.idx.Select(int(k))
	if errors.Is(err, multiset.ErrOutOfRange) {
		return nil, status.Error(codes.OutOfRange, err.Error())
	}
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return wrapperspb.Int64(v), nil
}

func (s *Server) Rank(_ context.Context, req *wrapperspb.Int64Value) (*wrapperspb.UInt64Value, error) {
	return wrapperspb.UInt64(uint64(s.idx.Rank(req.GetValue()))), nil
}

// -------------------- Interceptors --------------------

// LoggingInterceptor logs every call at debug level, and failures other
// than client mistakes at warn.
func LoggingInterceptor(log *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		code := status.Code(err)

		attrs := []any{"method", info.FullMethod, "code", code.String(), "took", time.Since(start)}
		switch code {
		case codes.OK, codes.OutOfRange, codes.InvalidArgument:
			log.Debug("grpc call", attrs...)
		default:
			log.Warn("grpc call failed", append(attrs, "err", err)...)
		}
		return resp, err
	}
}
