package adaptor

import (
	"encoding/json"
	"net/http"
	"strings"

	"movie-theater/internal/usecase"
	"movie-theater/pkg/utils"

	"go.uber.org/zap"
)

// errorRule maps a fragment of a service error message to a status code.
// Rules are checked in order.
type errorRule struct {
	fragments []string
	status    int
}

var errorRules = []errorRule{
	{[]string{"invalid credentials", "unauthorized"}, http.StatusUnauthorized},
	{[]string{"declined"}, http.StatusPaymentRequired},
	{[]string{"forbidden", "deactivated", "not allowed"}, http.StatusForbidden},
	{[]string{"not found"}, http.StatusNotFound},
	{[]string{"validation failed", "selection full", "invalid"}, http.StatusBadRequest},
	{[]string{"already", "unavailable", "no longer", "cannot", "not active"}, http.StatusConflict},
}

// statusForError picks the HTTP status for a service error.
func statusForError(err error) int {
	msg := strings.ToLower(err.Error())
	for _, rule := range errorRules {
		for _, fragment := range rule.fragments {
			if strings.Contains(msg, fragment) {
				return rule.status
			}
		}
	}
	return http.StatusInternalServerError
}

// handleServiceError writes err in the response envelope. Internal errors
// are logged and replaced with a generic message.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		log.Error(operation+" failed",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, "Failed to "+operation)
		return
	}

	log.Warn(operation+" rejected",
		zap.Error(err),
		zap.String("operation", operation),
		zap.Int("status", status))
	utils.ResponseJSON(w, status, false, err.Error(), nil, nil)
}

// decodeAndValidate reads a JSON body into dst and runs struct validation.
// It writes the 400 response itself and returns false on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return false
	}

	if validationErrors := utils.ValidateStruct(dst); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return false
	}
	return true
}

// callerFrom reads the authenticated user set by the auth middleware.
func callerFrom(w http.ResponseWriter, r *http.Request) (usecase.Caller, bool) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Unauthorized")
		return usecase.Caller{}, false
	}
	roles, _ := utils.GetRolesFromContext(r.Context())
	return usecase.Caller{ID: userID, Roles: roles}, true
}
