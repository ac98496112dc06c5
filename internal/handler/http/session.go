package http

import (
	"net/http"

	"github.com/cmlabs-hris/payroll-engine/internal/handler/http/response"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

type SessionHandler interface {
	Logout(w http.ResponseWriter, r *http.Request)
}

type sessionHandlerImpl struct {
	JWTService jwt.Service
}

func NewSessionHandler(JWTService jwt.Service) SessionHandler {
	return &sessionHandlerImpl{JWTService: JWTService}
}

// Logout revokes the bearer token used for this request.
func (h *sessionHandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	token := jwtauth.TokenFromHeader(r)
	if token == "" {
		response.Unauthorized(w, "missing bearer token")
		return
	}

	h.JWTService.RevokeToken(token)
	response.SuccessWithMessage(w, "Logged out", nil)
}
