package identity

import "strings"

// Role is the privilege level stored on each account.
type Role string

const (
	RoleUser      Role = "USER"
	RoleSuperuser Role = "SUPERUSER"
)

// AuthInfo is the credential a caller presents on every call. Either one of
// the external handles or the (MID, Password) pair identifies the caller.
type AuthInfo struct {
	MID      uint64
	Password string
	QQ       string
	Wechat   string
}

// HandleColumn is a column holding an external identity handle.
type HandleColumn string

const (
	HandleWechat HandleColumn = "wechat"
	HandleQQ     HandleColumn = "qq"
)

// Handle returns the external handle to resolve by, if any. Wechat wins over
// QQ when both are present.
func (a AuthInfo) Handle() (HandleColumn, string, bool) {
	if v := strings.TrimSpace(a.Wechat); v != "" {
		return HandleWechat, v, true
	}
	if v := strings.TrimSpace(a.QQ); v != "" {
		return HandleQQ, v, true
	}
	return "", "", false
}

// CanActOn decides whether an actor may mutate or delete target.
//
//   - self: always
//   - SUPERUSER over USER: yes
//   - USER over anyone else, SUPERUSER over SUPERUSER: no
func CanActOn(actorID uint64, actorRole Role, targetID uint64, targetRole Role) bool {
	if actorID == targetID {
		return true
	}
	return actorRole == RoleSuperuser && targetRole == RoleUser
}
