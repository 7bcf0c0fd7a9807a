package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/noel-mugisha/Freelance-App-Backend/internal/data/entity"
	"github.com/noel-mugisha/Freelance-App-Backend/internal/usecase"
	"github.com/noel-mugisha/Freelance-App-Backend/pkg/utils"

	"go.uber.org/zap"
)

// handleServiceError maps a service error onto the response envelope.
// Internal failures are logged in full and answered with a generic message.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	msg := err.Error()
	var clientErr *usecase.Error
	if errors.As(err, &clientErr) {
		msg = clientErr.Error()
	}

	var verr *usecase.ValidationError
	switch {
	case errors.As(err, &verr):
		log.Warn(operation+" validation failed", zap.Any("errors", verr.Fields))
		utils.ResponseBadRequest(w, "Validation failed", verr.Fields)

	case errors.Is(err, usecase.ErrUsernameTaken), errors.Is(err, usecase.ErrEmailTaken):
		// registration conflicts are reported as 400, like other bad input
		log.Warn(operation+" failed - duplicate account", zap.Error(err))
		utils.ResponseBadRequest(w, msg, nil)

	case errors.Is(err, usecase.ErrValidation):
		log.Warn(operation+" failed - invalid input", zap.Error(err))
		utils.ResponseBadRequest(w, msg, nil)

	case errors.Is(err, usecase.ErrConflict):
		log.Warn(operation+" failed - conflict", zap.Error(err))
		utils.ResponseConflict(w, msg)

	case errors.Is(err, usecase.ErrNotFound):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, msg)

	case errors.Is(err, usecase.ErrUnauthorized):
		log.Warn(operation+" failed - unauthorized", zap.Error(err))
		utils.ResponseUnauthorized(w, msg)

	case errors.Is(err, usecase.ErrForbidden):
		log.Warn(operation+" failed - forbidden", zap.Error(err))
		utils.ResponseForbidden(w, msg)

	default:
		log.Error(operation+" failed", zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}

// decodeJSON reads the request body into dst and answers 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return false
	}
	return true
}

// callerFrom builds the caller identity AuthJWT stored in the context.
func callerFrom(w http.ResponseWriter, r *http.Request) (entity.Caller, bool) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return entity.Caller{}, false
	}
	role, _ := utils.GetRoleFromContext(r.Context())
	return entity.Caller{ID: userID, Role: entity.UserRole(role)}, true
}
