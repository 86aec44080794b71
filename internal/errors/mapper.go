// internal/errors/mapper.go
package errors

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"gorm.io/gorm"
)

// Map converts domain and infra errors into gRPC status errors.
// Keeps handlers clean by centralizing error mapping.
func Map(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	switch {
	case errors.Is(err, ErrInvalidPage),
		errors.Is(err, ErrInvalidArgument),
		errors.Is(err, ErrSelfFollow):
		return status.Error(codes.InvalidArgument, err.Error())

	case errors.Is(err, ErrUnauthenticated):
		return status.Error(codes.Unauthenticated, err.Error())

	case errors.Is(err, ErrForbidden):
		return status.Error(codes.PermissionDenied, err.Error())

	case errors.Is(err, ErrVideoNotViewed),
		errors.Is(err, ErrUserNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return status.Error(codes.NotFound, err.Error())

	case errors.Is(err, ErrDuplicateIdentity):
		return status.Error(codes.AlreadyExists, err.Error())

	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "request timed out")

	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request was canceled")

	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// InvalidArgument creates a gRPC InvalidArgument error for a malformed
// request, before it reaches a service.
func InvalidArgument(msg string) error {
	return status.Error(codes.InvalidArgument, msg)
}
