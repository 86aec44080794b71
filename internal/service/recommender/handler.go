package recommender

import (
	"context"

	"github.com/oggyb/vidrec/internal/app"
	svcErr "github.com/oggyb/vidrec/internal/errors"
	"github.com/oggyb/vidrec/internal/rpc/vidrec"
)

// Handler implements the Recommender gRPC API on top of Service.
// Each method corresponds to a method of vidrec.RecommenderServer.
type Handler struct {
	appCtx *app.AppContext
	svc    *Service
}

// NewHandler creates a Recommender handler with dependencies from AppContext.
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

// RecommendNextVideo answers NotFound for a video nobody has viewed, which
// clients can tell apart from an empty list.
func (h *Handler) RecommendNextVideo(ctx context.Context, req *vidrec.NextVideoRequest) (*vidrec.VideoList, error) {
	h.appCtx.Logger.Debug("RecommendNextVideo called", "bv", req.BV)

	bvs, err := h.svc.RecommendNextVideo(ctx, req.BV)
	if err != nil {
		return nil, h.fail("RecommendNextVideo", err)
	}
	return &vidrec.VideoList{BVs: bvs}, nil
}

func (h *Handler) GeneralRecommendations(ctx context.Context, req *vidrec.GeneralRequest) (*vidrec.VideoList, error) {
	h.appCtx.Logger.Debug("GeneralRecommendations called", "page_size", req.Page.PageSize, "page_num", req.Page.PageNum)

	bvs, err := h.svc.GeneralRecommendations(ctx, int(req.Page.PageSize), int(req.Page.PageNum))
	if err != nil {
		return nil, h.fail("GeneralRecommendations", err)
	}
	return &vidrec.VideoList{BVs: bvs}, nil
}

func (h *Handler) RecommendVideosForUser(ctx context.Context, req *vidrec.UserPageRequest) (*vidrec.VideoList, error) {
	h.appCtx.Logger.Debug("RecommendVideosForUser called", "page_size", req.Page.PageSize, "page_num", req.Page.PageNum)

	bvs, err := h.svc.RecommendVideosForUser(ctx, req.Auth.Info(), int(req.Page.PageSize), int(req.Page.PageNum))
	if err != nil {
		return nil, h.fail("RecommendVideosForUser", err)
	}
	return &vidrec.VideoList{BVs: bvs}, nil
}

func (h *Handler) RecommendFriends(ctx context.Context, req *vidrec.UserPageRequest) (*vidrec.UserList, error) {
	h.appCtx.Logger.Debug("RecommendFriends called", "page_size", req.Page.PageSize, "page_num", req.Page.PageNum)

	mids, err := h.svc.RecommendFriends(ctx, req.Auth.Info(), int(req.Page.PageSize), int(req.Page.PageNum))
	if err != nil {
		return nil, h.fail("RecommendFriends", err)
	}
	return &vidrec.UserList{MIDs: mids}, nil
}

func (h *Handler) AverageViewRate(ctx context.Context, req *vidrec.AverageViewRateRequest) (*vidrec.AverageViewRateResponse, error) {
	rate, err := h.svc.AverageViewRate(ctx, req.BV)
	if err != nil {
		return nil, h.fail("AverageViewRate", err)
	}
	return &vidrec.AverageViewRateResponse{Rate: rate}, nil
}
