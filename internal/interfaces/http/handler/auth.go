package handler

import (
	"github.com/gin-gonic/gin"

	identityapp "github.com/storefront/backend/internal/application/identity"
)

// AuthHandler handles registration and authentication endpoints
type AuthHandler struct {
	BaseHandler
	identityService *identityapp.Service
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(identityService *identityapp.Service) *AuthHandler {
	return &AuthHandler{identityService: identityService}
}

// RegisterRoutes registers the public auth routes
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	auth.POST("/register", h.Register)
	auth.POST("/login", h.Login)
	auth.POST("/verify-email", h.VerifyEmail)
	auth.POST("/resend-otp", h.ResendOTP)
	auth.POST("/forgot-password", h.ForgotPassword)
	auth.POST("/reset-password", h.ResetPassword)
}

// Register creates a new customer account
func (h *AuthHandler) Register(c *gin.Context) {
	var req identityapp.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	user, err := h.identityService.Register(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, user)
}

// Login authenticates a user and returns a bearer token
func (h *AuthHandler) Login(c *gin.Context) {
	var req identityapp.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.identityService.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// VerifyEmail confirms the account with the emailed one-time code
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req identityapp.VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	user, err := h.identityService.VerifyEmail(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, user)
}

// ResendOTP issues a fresh verification code
func (h *AuthHandler) ResendOTP(c *gin.Context) {
	var req identityapp.ResendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.identityService.ResendOTP(c.Request.Context(), req); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Verification code sent"})
}

// ForgotPassword starts a password reset
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req identityapp.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.identityService.ForgotPassword(c.Request.Context(), req); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	// Identical response whether or not the account exists
	h.Success(c, gin.H{"message": "If the account exists, a reset token has been sent"})
}

// ResetPassword completes a password reset with the emailed token
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req identityapp.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.identityService.ResetPassword(c.Request.Context(), req); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Password has been reset"})
}
