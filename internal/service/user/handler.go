package user

import (
	"context"

	"github.com/oggyb/vidrec/internal/app"
	svcErr "github.com/oggyb/vidrec/internal/errors"
	"github.com/oggyb/vidrec/internal/rpc/vidrec"
)

// Handler implements the Users gRPC API on top of Service.
type Handler struct {
	appCtx *app.AppContext
	svc    *Service
}

func NewHandler(appCtx *app.AppContext) *Handler {
	return &Handler{appCtx: appCtx, svc: NewService(appCtx)}
}

func (h *Handler) fail(op string, err error) error {
	if svcErr.IsRejection(err) {
		h.appCtx.Logger.Debug(op+" rejected", "err", err)
	} else {
		h.appCtx.Logger.Error(op+" failed", "err", err)
	}
	return svcErr.Map(err)
}

func (h *Handler) Register(ctx context.Context, req *vidrec.RegisterRequest) (*vidrec.RegisterResponse, error) {
	h.appCtx.Logger.Debug("Register called", "name", req.Name)

	mid, err := h.svc.Register(ctx, RegisterInput{
		Name:     req.Name,
		Sex:      req.Sex,
		Birthday: req.Birthday,
		Sign:     req.Sign,
		Password: req.Password,
		QQ:       req.QQ,
		Wechat:   req.Wechat,
	})
	if err != nil {
		return nil, h.fail("Register", err)
	}
	return &vidrec.RegisterResponse{MID: mid}, nil
}

func (h *Handler) IsValidAuth(ctx context.Context, req *vidrec.AuthRequest) (*vidrec.BoolResponse, error) {
	ok, err := h.svc.IsValidAuth(ctx, req.Auth.Info())
	if err != nil {
		return nil, h.fail("IsValidAuth", err)
	}
	return &vidrec.BoolResponse{OK: ok}, nil
}

func (h *Handler) IsAuthorized(ctx context.Context, req *vidrec.AuthorizeRequest) (*vidrec.BoolResponse, error) {
	ok, err := h.svc.IsAuthorized(ctx, req.Auth.Info(), req.Target)
	if err != nil {
		return nil, h.fail("IsAuthorized", err)
	}
	return &vidrec.BoolResponse{OK: ok}, nil
}

func (h *Handler) DeleteAccount(ctx context.Context, req *vidrec.DeleteAccountRequest) (*vidrec.BoolResponse, error) {
	h.appCtx.Logger.Debug("DeleteAccount called", "mid", req.MID)
	if req.MID == 0 {
		return nil, svcErr.InvalidArgument("mid is required")
	}

	ok, err := h.svc.DeleteAccount(ctx, req.Auth.Info(), req.MID)
	if err != nil {
		return nil, h.fail("DeleteAccount", err)
	}
	return &vidrec.BoolResponse{OK: ok}, nil
}

func (h *Handler) Follow(ctx context.Context, req *vidrec.FollowRequest) (*vidrec.BoolResponse, error) {
	h.appCtx.Logger.Debug("Follow called", "followee", req.Followee)
	if req.Followee == 0 {
		return nil, svcErr.InvalidArgument("followee is required")
	}

	following, err := h.svc.Follow(ctx, req.Auth.Info(), req.Followee)
	if err != nil {
		return nil, h.fail("Follow", err)
	}
	return &vidrec.BoolResponse{OK: following}, nil
}

func (h *Handler) GetUserInfo(ctx context.Context, req *vidrec.MIDRequest) (*vidrec.UserInfoResponse, error) {
	info, err := h.svc.GetUserInfo(ctx, req.MID)
	if err != nil {
		return nil, h.fail("GetUserInfo", err)
	}
	return &vidrec.UserInfoResponse{
		MID:       info.MID,
		Coin:      info.Coin,
		Following: info.Following,
		Follower:  info.Follower,
		Watched:   info.Watched,
		Liked:     info.Liked,
		Collected: info.Collected,
		Posted:    info.Posted,
	}, nil
}

// CountFollowers is served cache-first, see Service.CountFollowers.
func (h *Handler) CountFollowers(ctx context.Context, req *vidrec.MIDRequest) (*vidrec.CountResponse, error) {
	n, err := h.svc.CountFollowers(ctx, req.MID)
	if err != nil {
		return nil, h.fail("CountFollowers", err)
	}
	return &vidrec.CountResponse{Count: n}, nil
}
