package chainrpc

import (
	"context"
	"time"

	"github.com/p7r0x7/hashloop"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.

// Client runs chains on a remote Chain service.
type Client struct {
	cc     *grpc.ClientConn
	client ChainClient

	// Timeout applies per RPC when non-zero.
	Timeout time.Duration
}

type DialOptions struct {
	// Timeout applies to the initial dial when non-zero.
	Timeout time.Duration

	// MaxMsgBytes sets both send/recv max sizes when non-zero.
	MaxMsgBytes int
}

func Dial(target string, opts DialOptions, extra ...grpc.DialOption) (*Client, error) {
	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}
	if opts.MaxMsgBytes > 0 {
		dialOpts = append(dialOpts,
			grpc.WithDefaultCallOptions(
				grpc.MaxCallRecvMsgSize(opts.MaxMsgBytes),
				grpc.MaxCallSendMsgSize(opts.MaxMsgBytes),
			),
		)
	}
	dialOpts = append(dialOpts, extra...)

	ctx := context.Background()
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	cc, err := grpc.DialContext(ctx, target, dialOpts...)
	if err != nil {
		return nil, err
	}
	return &Client{cc: cc, client: NewChainClient(cc)}, nil
}

func (c *Client) Close() error {
	if c == nil || c.cc == nil {
		return nil
	}
	return c.cc.Close()
}

// Iterate returns the results of reqs in request order.
func (c *Client) Iterate(ctx context.Context, reqs []hashloop.Request) ([]hashloop.Word, error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}
	reply, err := c.client.Iterate(ctx, wrapperspb.Bytes(EncodeRequests(reqs)))
	if err != nil {
		return nil, mapRPC(err)
	}
	ws, err := DecodeResults(reply.GetValue())
	if err != nil || len(ws) != len(reqs) {
		return nil, ErrMalformed
	}
	return ws, nil
}

func mapRPC(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch {
	case st.Code() == codes.InvalidArgument && st.Message() == ErrMalformed.Error():
		return ErrMalformed
	case st.Code() == codes.Unavailable && st.Message() == hashloop.ErrClosed.Error():
		return hashloop.ErrClosed
	case st.Code() == codes.Canceled:
		return context.Canceled
	case st.Code() == codes.DeadlineExceeded:
		return context.DeadlineExceeded
	default:
		return err
	}
}
