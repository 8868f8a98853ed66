package handler

import (
	"github.com/gin-gonic/gin"

	identityapp "github.com/storefront/backend/internal/application/identity"
)

// AccountHandler handles the authenticated user's own account
type AccountHandler struct {
	BaseHandler
	identityService *identityapp.Service
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(identityService *identityapp.Service) *AccountHandler {
	return &AccountHandler{identityService: identityService}
}

// RegisterRoutes registers the account routes; the group must already
// require authentication
func (h *AccountHandler) RegisterRoutes(rg *gin.RouterGroup) {
	account := rg.Group("/account")
	account.GET("/me", h.Me)
	account.PUT("/profile", h.UpdateProfile)
	account.PUT("/password", h.ChangePassword)
	account.PUT("/address", h.SetDefaultAddress)
	account.GET("/wallet", h.GetWallet)
	account.POST("/wallet/top-up", h.TopUpWallet)
}

// Me returns the current user's profile
func (h *AccountHandler) Me(c *gin.Context) {
	userID, err := h.getUserID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	user, err := h.identityService.Me(c.Request.Context(), userID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, user)
}

// UpdateProfile updates the current user's name
func (h *AccountHandler) UpdateProfile(c *gin.Context) {
	userID, err := h.getUserID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	var req identityapp.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	user, err := h.identityService.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, user)
}

// ChangePassword replaces the current user's password
func (h *AccountHandler) ChangePassword(c *gin.Context) {
	userID, err := h.getUserID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	var req identityapp.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.identityService.ChangePassword(c.Request.Context(), userID, req); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Password changed"})
}

// SetDefaultAddress replaces the current user's shipping address
func (h *AccountHandler) SetDefaultAddress(c *gin.Context) {
	userID, err := h.getUserID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	var req identityapp.SetAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	user, err := h.identityService.SetDefaultAddress(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, user)
}

// GetWallet returns the current wallet balance
func (h *AccountHandler) GetWallet(c *gin.Context) {
	userID, err := h.getUserID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	wallet, err := h.identityService.GetWallet(c.Request.Context(), userID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, wallet)
}

// TopUpWallet credits the wallet with a simulated deposit
func (h *AccountHandler) TopUpWallet(c *gin.Context) {
	userID, err := h.getUserID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	var req identityapp.TopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	wallet, err := h.identityService.TopUpWallet(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, wallet)
}
