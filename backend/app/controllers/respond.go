package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"blog-cms/backend/app/middleware"
	"blog-cms/backend/app/models"
	"blog-cms/backend/app/services"
	"blog-cms/backend/global"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// writeServiceError maps a service outcome to a status. Unclassified errors
// are store failures: logged in full, reported generically.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var svcErr *services.Error
	if errors.As(err, &svcErr) {
		writeJSONError(w, statusFor(svcErr.Kind), svcErr.Message)
		return
	}
	global.Logger.Error().Err(err).
		Str("request_id", middleware.RequestID(r.Context())).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Msg("request failed")
	writeJSONError(w, http.StatusInternalServerError, "internal server error")
}

func statusFor(kind error) int {
	switch kind {
	case services.ErrInvalidInput:
		return http.StatusBadRequest
	case services.ErrUnauthenticated:
		return http.StatusUnauthorized
	case services.ErrForbidden:
		return http.StatusForbidden
	case services.ErrNotFound:
		return http.StatusNotFound
	case services.ErrConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (uint, bool) {
	id, err := strconv.ParseUint(r.PathValue(name), 10, 32)
	if err != nil || id == 0 {
		writeJSONError(w, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// actor reads the identity attached by the auth guard.
func actor(r *http.Request) (services.Actor, bool) {
	claims := middleware.GetClaims(r.Context())
	if claims == nil {
		return services.Actor{}, false
	}
	return services.Actor{ID: claims.UserID, Name: claims.Name, Role: models.Role(claims.Role)}, true
}
