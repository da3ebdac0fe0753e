// Package login contains the token-issuance handler.
//
// The browser client historically validated credentials by calling any
// read endpoint with a Basic header. That still works, but resending
// the password on every request is a smell, so POST /api/login trades
// the credentials for a short-lived signed token the client can present
// as a Bearer credential instead.
package login

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/campusdesk/academic-records-api/internal/auth"
	"github.com/campusdesk/academic-records-api/internal/utils/response"
)

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// New handles POST /api/login. This route is the only one mounted
// outside the Authenticate middleware — it is where credentials get
// checked.
//
// Request body (JSON):
//
//	{ "username": "admin", "password": "..." }
//
// Success response (200 OK):
//
//	{ "token": "...", "username": "admin", "role": "admin", "expiresAt": "..." }
//
// Error responses:
//
//	400 Bad Request  — empty body, malformed JSON, or missing fields
//	401 Unauthorized — the pair does not match a known account
func New(svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		err := json.NewDecoder(r.Body).Decode(&req)
		if errors.Is(err, io.EOF) {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("request body is empty")))
			return
		}
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		if err := validator.New().Struct(req); err != nil {
			validateErrs := err.(validator.ValidationErrors)
			response.WriteJSON(w, http.StatusBadRequest,
				response.ValidationError(validateErrs))
			return
		}

		identity, err := svc.Authenticate(req.Username, req.Password)
		if err != nil {
			slog.Info("login failed", slog.String("username", req.Username))
			response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(err))
			return
		}

		token, expiresAt, err := svc.IssueToken(identity)
		if err != nil {
			slog.Error("error issuing token", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(err))
			return
		}

		slog.Info("login succeeded",
			slog.String("username", identity.Username),
			slog.String("role", identity.Role),
		)
		response.WriteJSON(w, http.StatusOK, loginResponse{
			Token:     token,
			Username:  identity.Username,
			Role:      identity.Role,
			ExpiresAt: expiresAt,
		})
	}
}
