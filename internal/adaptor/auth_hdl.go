package adaptor

import (
	"net/http"

	"github.com/noel-mugisha/Freelance-App-Backend/internal/dto/request"
	"github.com/noel-mugisha/Freelance-App-Backend/internal/usecase"
	"github.com/noel-mugisha/Freelance-App-Backend/pkg/utils"

	"go.uber.org/zap"
)

type AuthHandler struct {
	service usecase.AuthService
	log     *zap.Logger
}

func NewAuthHandler(service usecase.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		log:     log.With(zap.String("handler", "auth")),
	}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.service.Register(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "register")
		return
	}

	utils.ResponseCreated(w, "Registration successful. Check your email for the verification code.", user)
}

// VerifyOTP handles POST /api/auth/verify-otp
func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req request.VerifyOTPRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.VerifyOTP(r.Context(), &req); err != nil {
		handleServiceError(w, h.log, err, "verify otp")
		return
	}

	utils.ResponseSuccess(w, "Email verified successfully. You can now log in.", nil)
}

// ResendOTP handles POST /api/auth/resend-otp
func (h *AuthHandler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	var req request.EmailRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.ResendVerification(r.Context(), &req); err != nil {
		handleServiceError(w, h.log, err, "resend otp")
		return
	}

	utils.ResponseSuccess(w, "If the account is awaiting verification, a new code has been sent.", nil)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	tokens, err := h.service.Login(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "login")
		return
	}

	utils.ResponseSuccess(w, "Login successful", tokens)
}

// Refresh handles POST /api/auth/refresh
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req request.RefreshRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	tokens, err := h.service.Refresh(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "refresh")
		return
	}

	utils.ResponseSuccess(w, "Token refreshed", tokens)
}

// RequestPasswordReset handles POST /api/auth/request-password-reset
func (h *AuthHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req request.EmailRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.RequestPasswordReset(r.Context(), &req); err != nil {
		handleServiceError(w, h.log, err, "request password reset")
		return
	}

	utils.ResponseSuccess(w, "If an account with that email exists, a password reset code has been sent.", nil)
}

// ResetPassword handles POST /api/auth/reset-password-otp
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req request.ResetPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.ResetPassword(r.Context(), &req); err != nil {
		handleServiceError(w, h.log, err, "reset password")
		return
	}

	utils.ResponseSuccess(w, "Password has been reset successfully.", nil)
}
