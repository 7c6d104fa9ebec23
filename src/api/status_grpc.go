package api

import (
	"context"
	"errors"
	"log"
	"time"

	game "starshunters-server/src"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const getStatusMethod = "/starshunters.v1.MatchStatus/GetStatus"

// MatchStatusServer is the server API for the starshunters.v1.MatchStatus service.
type MatchStatusServer interface {
	GetStatus(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

func RegisterMatchStatusServer(s grpc.ServiceRegistrar, srv MatchStatusServer) {
	s.RegisterService(&matchStatusServiceDesc, srv)
}

var matchStatusServiceDesc = grpc.ServiceDesc{
	ServiceName: "starshunters.v1.MatchStatus",
	HandlerType: (*MatchStatusServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetStatus", Handler: matchStatusGetStatusHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "starshunters/v1/status.proto",
}

func matchStatusGetStatusHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MatchStatusServer).GetStatus(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: getStatusMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(MatchStatusServer).GetStatus(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// MatchStatusClient calls the MatchStatus service.
type MatchStatusClient struct {
	cc grpc.ClientConnInterface
}

func NewMatchStatusClient(cc grpc.ClientConnInterface) *MatchStatusClient {
	return &MatchStatusClient{cc: cc}
}

func (c *MatchStatusClient) GetStatus(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, getStatusMethod, &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

type statusService struct {
	source StatusSource
}

func (s *statusService) GetStatus(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	st, err := s.source.Status(ctx)
	if err != nil {
		if errors.Is(err, game.ErrServerStopped) {
			return nil, status.Error(codes.Unavailable, err.Error())
		}
		return nil, status.FromContextError(err).Err()
	}
	out, err := structpb.NewStruct(statusFields(st))
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode status: %v", err)
	}
	return out, nil
}

func statusFields(st game.Status) map[string]any {
	var remaining any
	if st.RemainingTime != nil {
		remaining = *st.RemainingTime
	}
	return map[string]any{
		"timestamp":          st.Timestamp.UTC().Format(time.RFC3339),
		"server_uptime_sec":  int64(st.Uptime / time.Second),
		"active_connections": st.Sessions,
		"admin_bound":        st.AdminBound,
		"players":            st.Players,
		"stars":              st.Stars,
		"running":            st.Running,
		"remaining_time":     remaining,
		"ticks":              st.Ticks,
		"config": map[string]any{
			"width":      st.Config.Width,
			"height":     st.Config.Height,
			"scoreLimit": st.Config.ScoreLimit,
			"timeLimit":  st.Config.TimeLimit,
		},
	}
}

// NewGRPCServer returns a gRPC server exposing the MatchStatus service.
func NewGRPCServer(source StatusSource, logger *log.Logger) *grpc.Server {
	if logger == nil {
		logger = log.Default()
	}
	srv := grpc.NewServer(grpc.UnaryInterceptor(func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		resp, err := handler(ctx, req)
		if err != nil {
			logger.Printf("gRPC %s failed: %v", info.FullMethod, err)
		}
		return resp, err
	}))
	RegisterMatchStatusServer(srv, &statusService{source: source})
	return srv
}
