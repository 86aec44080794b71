package errors

import "errors"

// Rejections. A call that fails with one of these did not touch storage in a
// way that failed; callers can tell them apart from "no results" and from
// storage failures, which are returned wrapped and unmatched by these.
var (
	ErrInvalidPage       = errors.New("page size and page number must be positive")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrUnauthenticated   = errors.New("credential does not resolve to a live user")
	ErrForbidden         = errors.New("not authorized to act on target user")
	ErrVideoNotViewed    = errors.New("video has no view records")
	ErrUserNotFound      = errors.New("user not found")
	ErrSelfFollow        = errors.New("cannot follow yourself")
	ErrDuplicateIdentity = errors.New("qq or wechat handle already registered")
)

// IsRejection reports whether err is one of the input/auth rejections above.
func IsRejection(err error) bool {
	for _, target := range []error{
		ErrInvalidPage, ErrInvalidArgument, ErrUnauthenticated, ErrForbidden,
		ErrVideoNotViewed, ErrUserNotFound, ErrSelfFollow, ErrDuplicateIdentity,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
