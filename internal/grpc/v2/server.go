package v2

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/Totarae/MultiLinkProxy/internal/links"
	"github.com/Totarae/MultiLinkProxy/internal/model"
)

// Полные имена методов сервиса linkproxy.v2.LinkProxy.
const (
	ServiceName        = "linkproxy.v2.LinkProxy"
	DecodeFullMethod   = "/" + ServiceName + "/Decode"
	GenerateFullMethod = "/" + ServiceName + "/Generate"
)

// LinkProxyServer сервер API, сообщения из стандартных типов google.protobuf.
type LinkProxyServer interface {
	Decode(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error)
	Generate(ctx context.Context, req *structpb.ListValue) (*structpb.ListValue, error)
}

type GRPCServer struct {
	Logger *zap.Logger
}

var _ LinkProxyServer = (*GRPCServer)(nil)

func NewGRPCServer(logger *zap.Logger) *GRPCServer {
	return &GRPCServer{Logger: logger}
}

// Register регистрирует сервис на grpc.Server.
func Register(s grpc.ServiceRegistrar, srv LinkProxyServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// Decode разбирает текст и возвращает {links, decoded_count}.
func (s *GRPCServer) Decode(_ context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	result, err := links.Normalize(req.GetValue())
	if err != nil {
		return nil, toStatus(err)
	}
	return normalizeResultToStruct(result)
}

// Generate принимает список строк и возвращает список записей с прокси-ссылками.
func (s *GRPCServer) Generate(_ context.Context, req *structpb.ListValue) (*structpb.ListValue, error) {
	resolved := make([]string, 0, len(req.GetValues()))
	for _, v := range req.GetValues() {
		sv, ok := v.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return nil, status.Error(codes.InvalidArgument, "links must be strings")
		}
		resolved = append(resolved, sv.StringValue)
	}

	processed, err := links.Generate(resolved)
	if err != nil {
		return nil, toStatus(err)
	}

	out := &structpb.ListValue{Values: make([]*structpb.Value, 0, len(processed))}
	for _, p := range processed {
		item, err := structpb.NewStruct(map[string]any{
			"original":       p.Original,
			"filename":       p.Filename,
			"cdn_url":        p.CDNURL,
			"cloudflare_url": p.CloudflareURL,
		})
		if err != nil {
			s.Logger.Error("build response", zap.Error(err))
			return nil, status.Error(codes.Internal, "failed to build response")
		}
		out.Values = append(out.Values, structpb.NewStructValue(item))
	}
	return out, nil
}

func normalizeResultToStruct(result model.NormalizeResult) (*structpb.Struct, error) {
	items := make([]any, 0, len(result.Links))
	for _, l := range result.Links {
		items = append(items, l)
	}
	st, err := structpb.NewStruct(map[string]any{
		"links":         items,
		"decoded_count": result.DecodedCount,
	})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "build response: %v", err)
	}
	return st, nil
}

func toStatus(err error) error {
	if errors.Is(err, links.ErrInputEmpty) {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}

func _LinkProxy_Decode_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LinkProxyServer).Decode(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: DecodeFullMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LinkProxyServer).Decode(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func _LinkProxy_Generate_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.ListValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LinkProxyServer).Generate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GenerateFullMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LinkProxyServer).Generate(ctx, req.(*structpb.ListValue))
	}
	return interceptor(ctx, in, info, handler)
}

// ServiceDesc описание сервиса для grpc.Server.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*LinkProxyServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Decode", Handler: _LinkProxy_Decode_Handler},
		{MethodName: "Generate", Handler: _LinkProxy_Generate_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "linkproxy/v2/linkproxy.proto",
}

// LoggingInterceptor пишет в лог вызовы методов.
func LoggingInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		resp, err := handler(ctx, req)
		logger.Info("gRPC Request",
			zap.String("method", info.FullMethod),
			zap.String("code", status.Code(err).String()),
		)
		return resp, err
	}
}
