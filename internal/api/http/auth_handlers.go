package http

import (
	"net/http"

	authservice "github.com/AlibekovAA/microblog/internal/auth/service"
	commonhttp "github.com/AlibekovAA/microblog/internal/common/http"
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.auth.Register(r.Context(), authservice.RegisterInput{
		Handle:   req.Handle,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusCreated, toTokenResponse(result))
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.auth.Login(r.Context(), authservice.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, toTokenResponse(result))
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.auth.ChangePassword(r.Context(), requester(r), req.CurrentPassword, req.NewPassword); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toTokenResponse(result authservice.AuthResult) tokenResponse {
	return tokenResponse{
		Token:     result.AccessToken,
		ExpiresAt: result.ExpiresAt,
		Account:   toAccountResponse(result.Account, true),
	}
}
