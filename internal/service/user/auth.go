package user

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/oggyb/vidrec/internal/db"
	svcErr "github.com/oggyb/vidrec/internal/errors"
	"github.com/oggyb/vidrec/internal/identity"
	"github.com/oggyb/vidrec/internal/repository"
)

// Authenticate resolves auth to exactly one live account.
//
// Resolution order:
//  1. wechat handle, password ignored
//  2. qq handle, password ignored
//  3. MID and password against the stored bcrypt hash
//
// A handle match with a nonzero MID naming a different account is rejected.
// Unresolvable credentials return svcErr.ErrUnauthenticated; storage failures
// are returned wrapped. Pass a tx-bound repository to resolve inside a snapshot.
func Authenticate(ctx context.Context, users *repository.UserRepository, auth identity.AuthInfo) (*db.User, error) {
	if col, handle, ok := auth.Handle(); ok {
		matches, err := users.FindLiveByHandle(ctx, col, handle)
		if err != nil {
			return nil, fmt.Errorf("authenticate: %w", err)
		}
		if len(matches) != 1 {
			return nil, svcErr.ErrUnauthenticated
		}
		u := matches[0]
		if auth.MID != 0 && auth.MID != u.ID {
			return nil, svcErr.ErrUnauthenticated
		}
		return &u, nil
	}

	if auth.MID == 0 || auth.Password == "" {
		return nil, svcErr.ErrUnauthenticated
	}
	u, err := users.FindLive(ctx, auth.MID)
	if errors.Is(err, svcErr.ErrUserNotFound) {
		return nil, svcErr.ErrUnauthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(auth.Password)) != nil {
		return nil, svcErr.ErrUnauthenticated
	}
	return u, nil
}
