package vidrec

import "github.com/oggyb/vidrec/internal/identity"

// Auth is the credential carried by authenticated calls.
type Auth struct {
	MID      uint64 `json:"mid,omitempty"`
	Password string `json:"password,omitempty"`
	QQ       string `json:"qq,omitempty"`
	Wechat   string `json:"wechat,omitempty"`
}

// Info converts the wire credential; a missing one is the zero AuthInfo,
// which never authenticates.
func (a *Auth) Info() identity.AuthInfo {
	if a == nil {
		return identity.AuthInfo{}
	}
	return identity.AuthInfo{MID: a.MID, Password: a.Password, QQ: a.QQ, Wechat: a.Wechat}
}

type Page struct {
	PageSize int32 `json:"page_size"`
	PageNum  int32 `json:"page_num"`
}

// Recommender messages.

type NextVideoRequest struct {
	BV string `json:"bv"`
}

type GeneralRequest struct {
	Page Page `json:"page"`
}

type UserPageRequest struct {
	Auth *Auth `json:"auth"`
	Page Page  `json:"page"`
}

type VideoList struct {
	BVs []string `json:"bvs"`
}

type UserList struct {
	MIDs []uint64 `json:"mids"`
}

type AverageViewRateRequest struct {
	BV string `json:"bv"`
}

type AverageViewRateResponse struct {
	Rate float64 `json:"rate"`
}

// Users messages.

type RegisterRequest struct {
	Name     string `json:"name"`
	Sex      string `json:"sex"`
	Birthday string `json:"birthday,omitempty"`
	Sign     string `json:"sign,omitempty"`
	Password string `json:"password"`
	QQ       string `json:"qq,omitempty"`
	Wechat   string `json:"wechat,omitempty"`
}

type RegisterResponse struct {
	MID uint64 `json:"mid"`
}

type AuthRequest struct {
	Auth *Auth `json:"auth"`
}

type AuthorizeRequest struct {
	Auth   *Auth  `json:"auth"`
	Target uint64 `json:"target"`
}

type DeleteAccountRequest struct {
	Auth *Auth  `json:"auth"`
	MID  uint64 `json:"mid"`
}

type FollowRequest struct {
	Auth     *Auth  `json:"auth"`
	Followee uint64 `json:"followee"`
}

type MIDRequest struct {
	MID uint64 `json:"mid"`
}

type BoolResponse struct {
	OK bool `json:"ok"`
}

type CountResponse struct {
	Count int64 `json:"count"`
}

type UserInfoResponse struct {
	MID       uint64   `json:"mid"`
	Coin      int      `json:"coin"`
	Following []uint64 `json:"following"`
	Follower  []uint64 `json:"follower"`
	Watched   []string `json:"watched"`
	Liked     []string `json:"liked"`
	Collected []string `json:"collected"`
	Posted    []string `json:"posted"`
}
