package errors

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	case CodeNotFound:
		return codes.NotFound
	case CodeNotAuthorized:
		return codes.PermissionDenied
	case CodeInvalidState:
		return codes.FailedPrecondition
	case CodeInvalidInput:
		return codes.InvalidArgument
	default:
		return codes.Internal
	}
}

// GRPCStatus converts an error into a gRPC status error.
//
// Coded business errors keep their message; infrastructure failures map to
// Internal without leaking driver details into the status message.
func GRPCStatus(err error) error {
	if err == nil {
		return nil
	}
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return status.Error(domainErr.Code.GRPCCode(), domainErr.Message)
	}
	return status.Error(codes.Internal, "internal error")
}
