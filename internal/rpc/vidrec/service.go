package vidrec

import (
	"context"

	"google.golang.org/grpc"
)

const (
	RecommenderServiceName = "vidrec.v1.Recommender"
	UsersServiceName       = "vidrec.v1.Users"
)

// RecommenderServer is the server API of the Recommender service.
type RecommenderServer interface {
	RecommendNextVideo(context.Context, *NextVideoRequest) (*VideoList, error)
	GeneralRecommendations(context.Context, *GeneralRequest) (*VideoList, error)
	RecommendVideosForUser(context.Context, *UserPageRequest) (*VideoList, error)
	RecommendFriends(context.Context, *UserPageRequest) (*UserList, error)
	AverageViewRate(context.Context, *AverageViewRateRequest) (*AverageViewRateResponse, error)
}

// UsersServer is the server API of the Users service.
type UsersServer interface {
	Register(context.Context, *RegisterRequest) (*RegisterResponse, error)
	IsValidAuth(context.Context, *AuthRequest) (*BoolResponse, error)
	IsAuthorized(context.Context, *AuthorizeRequest) (*BoolResponse, error)
	DeleteAccount(context.Context, *DeleteAccountRequest) (*BoolResponse, error)
	Follow(context.Context, *FollowRequest) (*BoolResponse, error)
	GetUserInfo(context.Context, *MIDRequest) (*UserInfoResponse, error)
	CountFollowers(context.Context, *MIDRequest) (*CountResponse, error)
}

// unary adapts a method expression into a grpc.MethodHandler.
func unary[S any, Req any, Resp any](service, method string, call func(S, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	fullMethod := "/" + service + "/" + method
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(S), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(S), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var RecommenderServiceDesc = grpc.ServiceDesc{
	ServiceName: RecommenderServiceName,
	HandlerType: (*RecommenderServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(RecommenderServiceName, "RecommendNextVideo", RecommenderServer.RecommendNextVideo),
		unary(RecommenderServiceName, "GeneralRecommendations", RecommenderServer.GeneralRecommendations),
		unary(RecommenderServiceName, "RecommendVideosForUser", RecommenderServer.RecommendVideosForUser),
		unary(RecommenderServiceName, "RecommendFriends", RecommenderServer.RecommendFriends),
		unary(RecommenderServiceName, "AverageViewRate", RecommenderServer.AverageViewRate),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "vidrec/v1/recommender",
}

var UsersServiceDesc = grpc.ServiceDesc{
	ServiceName: UsersServiceName,
	HandlerType: (*UsersServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(UsersServiceName, "Register", UsersServer.Register),
		unary(UsersServiceName, "IsValidAuth", UsersServer.IsValidAuth),
		unary(UsersServiceName, "IsAuthorized", UsersServer.IsAuthorized),
		unary(UsersServiceName, "DeleteAccount", UsersServer.DeleteAccount),
		unary(UsersServiceName, "Follow", UsersServer.Follow),
		unary(UsersServiceName, "GetUserInfo", UsersServer.GetUserInfo),
		unary(UsersServiceName, "CountFollowers", UsersServer.CountFollowers),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "vidrec/v1/users",
}

func RegisterRecommenderServer(s grpc.ServiceRegistrar, srv RecommenderServer) {
	s.RegisterService(&RecommenderServiceDesc, srv)
}

func RegisterUsersServer(s grpc.ServiceRegistrar, srv UsersServer) {
	s.RegisterService(&UsersServiceDesc, srv)
}
