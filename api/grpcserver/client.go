package grpcserver

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Client calls a remote rankd.v1.Multiset service.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) Insert(ctx context.Context, key int64, opts ...grpc.CallOption) (uint64, error) {
	out := new(wrapperspb.UInt64Value)
	if err := c.cc.Invoke(ctx, fullMethod("Insert"), wrapperspb.Int64(key), out, opts...); err != nil {
		return 0, err
	}
	return out.GetValue(), nil
}

func (c *Client) Delete(ctx context.Context, key int64, opts ...grpc.CallOption) (bool, error) {
	out := new(wrapperspb.BoolValue)
	if err := c.cc.Invoke(ctx, fullMethod("Delete"), wrapperspb.Int64(key), out, opts...); err != nil {
		return false, err
	}
	return out.GetValue(), nil
}

func (c *Client) Contains(ctx context.Context, key int64, opts ...grpc.CallOption) (bool, error) {
	out := new(wrapperspb.BoolValue)
	if err := c.cc.Invoke(ctx, fullMethod("Contains"), wrapperspb.Int64(key), out, opts...); err != nil {
		return false, err
	}
	return out.GetValue(), nil
}

func (c *Client) Count(ctx context.Context, opts ...grpc.CallOption) (uint64, error) {
	out := new(wrapperspb.UInt64Value)
	if err := c.cc.Invoke(ctx, fullMethod("Count"), &emptypb.Empty{}, out, opts...); err != nil {
		return 0, err
	}
	return out.GetValue(), nil
}

func (c *Client) CountOf(ctx context.Context, key int64, opts ...grpc.CallOption) (uint64, error) {
	out := new(wrapperspb.UInt64Value)
	if err := c.cc.Invoke(ctx, fullMethod("CountOf"), wrapperspb.Int64(key), out, opts...); err != nil {
		return 0, err
	}
	return out.GetValue(), nil
}

// Select returns the k-th smallest key, 1-based. An out-of-range k fails
// with status code OutOfRange.
func (c *Client) Select(ctx context.Context, k uint64, opts ...grpc.CallOption) (int64, error) {
	out := new(wrapperspb.Int64Value)
	if err := c.cc.Invoke(ctx, fullMethod("Select"), wrapperspb.UInt64(k), out, opts...); err != nil {
		return 0, err
	}
	return out.GetValue(), nil
}

func (c *Client) Rank(ctx context.Context, key int64, opts ...grpc.CallOption) (uint64, error) {
	out := new(wrapperspb.UInt64Value)
	if err := c.cc.Invoke(ctx, fullMethod("Rank"), wrapperspb.Int64(key), out, opts...); err != nil {
		return 0, err
	}
	return out.GetValue(), nil
}
