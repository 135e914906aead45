package chainrpc

import (
	"context"
	"errors"

	"github.com/p7r0x7/hashloop"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.

// Server exposes a hashloop.Driver over the Chain gRPC service.
type Server struct {
	UnimplementedChainServer
	Driver *hashloop.Driver
	Cache  *Cache /* Optional. */
}

func (s *Server) Iterate(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	if s == nil || s.Driver == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing driver")
	}
	raw := in.GetValue()
	reqs, err := DecodeRequests(raw)
	if err != nil {
		return nil, mapErr(err)
	}

	out, miss, at := make([]hashloop.Word, len(reqs)), []hashloop.Request(nil), []int(nil)
	for i := range reqs {
		if w, ok := s.Cache.Get(record(raw, i)); ok {
			out[i] = w
			continue
		}
		miss, at = append(miss, reqs[i]), append(at, i)
	}
	if len(miss) > 0 {
		ws, err := s.Driver.Run(ctx, miss)
		if err != nil {
			return nil, mapErr(err)
		}
		for j, w := range ws {
			out[at[j]] = w
			s.Cache.Put(record(raw, at[j]), w)
		}
	}
	return wrapperspb.Bytes(EncodeResults(out)), nil
}

func record(raw []byte, i int) []byte { return raw[i*RecordSize : (i+1)*RecordSize] }

func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrMalformed):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, hashloop.ErrClosed):
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return status.FromContextError(err).Err()
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
