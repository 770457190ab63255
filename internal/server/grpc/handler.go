package grpc

import (
	"errors"

	"github.com/dmitrijs2005/lingobook/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus maps sentinel errors onto gRPC codes. Errors that already carry
// a status pass through unchanged.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	var code codes.Code
	switch {
	case errors.Is(err, common.ErrorNotFound):
		code = codes.NotFound
	case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrInvalidToken):
		code = codes.Unauthenticated
	case errors.Is(err, common.ErrorValidation):
		code = codes.InvalidArgument
	case errors.Is(err, common.ErrorOutOfRange):
		code = codes.OutOfRange
	case errors.Is(err, common.ErrorAlreadyExists):
		code = codes.AlreadyExists
	default:
		return status.Error(codes.Internal, "internal error")
	}
	return status.Error(code, err.Error())
}
