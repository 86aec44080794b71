package vidrec

import (
	"context"

	"google.golang.org/grpc"
)

// RecommenderClient calls the Recommender service.
type RecommenderClient struct {
	cc grpc.ClientConnInterface
}

func NewRecommenderClient(cc grpc.ClientConnInterface) *RecommenderClient {
	return &RecommenderClient{cc: cc}
}

func (c *RecommenderClient) RecommendNextVideo(ctx context.Context, in *NextVideoRequest, opts ...grpc.CallOption) (*VideoList, error) {
	out := new(VideoList)
	if err := c.cc.Invoke(ctx, "/"+RecommenderServiceName+"/RecommendNextVideo", in, out, callOpts(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *RecommenderClient) GeneralRecommendations(ctx context.Context, in *GeneralRequest, opts ...grpc.CallOption) (*VideoList, error) {
	out := new(VideoList)
	if err := c.cc.Invoke(ctx, "/"+RecommenderServiceName+"/GeneralRecommendations", in, out, callOpts(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *RecommenderClient) RecommendVideosForUser(ctx context.Context, in *UserPageRequest, opts ...grpc.CallOption) (*VideoList, error) {
	out := new(VideoList)
	if err := c.cc.Invoke(ctx, "/"+RecommenderServiceName+"/RecommendVideosForUser", in, out, callOpts(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *RecommenderClient) RecommendFriends(ctx context.Context, in *UserPageRequest, opts ...grpc.CallOption) (*UserList, error) {
	out := new(UserList)
	if err := c.cc.Invoke(ctx, "/"+RecommenderServiceName+"/RecommendFriends", in, out, callOpts(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *RecommenderClient) AverageViewRate(ctx context.Context, in *AverageViewRateRequest, opts ...grpc.CallOption) (*AverageViewRateResponse, error) {
	out := new(AverageViewRateResponse)
	if err := c.cc.Invoke(ctx, "/"+RecommenderServiceName+"/AverageViewRate", in, out, callOpts(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

// UsersClient calls the Users service.
type UsersClient struct {
	cc grpc.ClientConnInterface
}

func NewUsersClient(cc grpc.ClientConnInterface) *UsersClient {
	return &UsersClient{cc: cc}
}

func (c *UsersClient) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error) {
	out := new(RegisterResponse)
	if err := c.cc.Invoke(ctx, "/"+UsersServiceName+"/Register", in, out, callOpts(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *UsersClient) IsValidAuth(ctx context.Context, in *AuthRequest, opts ...grpc.CallOption) (*BoolResponse, error) {
	out := new(BoolResponse)
	if err := c.cc.Invoke(ctx, "/"+UsersServiceName+"/IsValidAuth", in, out, callOpts(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *UsersClient) IsAuthorized(ctx context.Context, in *AuthorizeRequest, opts ...grpc.CallOption) (*BoolResponse, error) {
	out := new(BoolResponse)
	if err := c.cc.Invoke(ctx, "/"+UsersServiceName+"/IsAuthorized", in, out, callOpts(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *UsersClient) DeleteAccount(ctx context.Context, in *DeleteAccountRequest, opts ...grpc.CallOption) (*BoolResponse, error) {
	out := new(BoolResponse)
	if err := c.cc.Invoke(ctx, "/"+UsersServiceName+"/DeleteAccount", in, out, callOpts(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *UsersClient) Follow(ctx context.Context, in *FollowRequest, opts ...grpc.CallOption) (*BoolResponse, error) {
	out := new(BoolResponse)
	if err := c.cc.Invoke(ctx, "/"+UsersServiceName+"/Follow", in, out, callOpts(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *UsersClient) GetUserInfo(ctx context.Context, in *MIDRequest, opts ...grpc.CallOption) (*UserInfoResponse, error) {
	out := new(UserInfoResponse)
	if err := c.cc.Invoke(ctx, "/"+UsersServiceName+"/GetUserInfo", in, out, callOpts(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *UsersClient) CountFollowers(ctx context.Context, in *MIDRequest, opts ...grpc.CallOption) (*CountResponse, error) {
	out := new(CountResponse)
	if err := c.cc.Invoke(ctx, "/"+UsersServiceName+"/CountFollowers", in, out, callOpts(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}
