package models

import "errors"

type FailureKind string

const (
	FailureKindNoQualifyingExpiration FailureKind = "no_qualifying_expiration"
	FailureKindEmptyChain             FailureKind = "empty_chain"
	FailureKindTransport              FailureKind = "transport"
	FailureKindAuth                   FailureKind = "auth"
	FailureKindNotFound               FailureKind = "not_found"
	FailureKindInvalidArgument        FailureKind = "invalid_argument"
	FailureKindUnknown                FailureKind = "unknown"
)

type FailureReason struct {
	Kind    FailureKind `json:"kind"`
	Message string      `json:"message"`
}

func (f FailureReason) Error() string {
	return string(f.Kind) + ": " + f.Message
}

func NewFailureReason(err error) FailureReason {
	return FailureReason{
		Kind:    ClassifyError(err),
		Message: err.Error(),
	}
}

func ClassifyError(err error) FailureKind {
	switch {
	case errors.Is(err, NoQualifyingExpirationErr):
		return FailureKindNoQualifyingExpiration
	case errors.Is(err, EmptyChainErr):
		return FailureKindEmptyChain
	case errors.Is(err, AuthErr):
		return FailureKindAuth
	case errors.Is(err, NotFoundErr):
		return FailureKindNotFound
	case errors.Is(err, TransportErr):
		return FailureKindTransport
	case errors.Is(err, InvalidMinDaysToExpirationErr):
		return FailureKindInvalidArgument
	}

	return FailureKindUnknown
}
