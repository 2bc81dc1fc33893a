package common

import (
	"encoding/json"
	"net/http"
	"sentinel-api/logger"

	"github.com/sirupsen/logrus"
)

// Machine-readable failure reasons. Clients branch on these, so they are
// part of the API contract and must stay stable.
const (
	ReasonInvalidCredentials    = "invalid_credentials"
	ReasonInvalidToken          = "invalid_token"
	ReasonExpiredToken          = "expired_token"
	ReasonRevokedToken          = "revoked_token"
	ReasonInsufficientFreshness = "insufficient_freshness"
	ReasonForbidden             = "forbidden"
	ReasonNotFound              = "not_found"
	ReasonValidationError       = "validation_error"
	ReasonStoreUnavailable      = "store_unavailable"
	ReasonInternalError         = "internal_error"
)

type AppError struct {
	Code    int    `json:"-"`
	Reason  string `json:"reason"`
	Message string `json:"error"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func NewAppError(code int, reason, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Reason:  reason,
		Message: message,
		Err:     err,
	}
}

// Send writes the error as a JSON response. The wrapped internal error is
// logged but never leaks to the client.
func (e *AppError) Send(w http.ResponseWriter) {
	if e.Err != nil {
		logger.Log.WithFields(logrus.Fields{
			"status_code":    e.Code,
			"reason":         e.Reason,
			"internal_error": e.Err.Error(),
		}).Error(e.Message)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(e.Code)
	json.NewEncoder(w).Encode(e)
}
