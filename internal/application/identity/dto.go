package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// RegisterRequest represents a new account registration
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=200"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	FullName string `json:"full_name" binding:"max=200"`
}

// LoginRequest represents a login attempt
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// VerifyEmailRequest carries the one-time code sent at registration
type VerifyEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6"`
}

// ResendOTPRequest asks for a fresh verification code
type ResendOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ForgotPasswordRequest starts a password reset
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest completes a password reset
type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=72"`
}

// ChangePasswordRequest changes the password of a logged-in user
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=72"`
}

// UpdateProfileRequest updates profile fields
type UpdateProfileRequest struct {
	FullName string `json:"full_name" binding:"max=200"`
	Phone    string `json:"phone" binding:"max=50"`
}

// SetAddressRequest sets the default shipping address
type SetAddressRequest struct {
	Street     string `json:"street" binding:"required,min=1,max=200"`
	City       string `json:"city" binding:"required,min=1,max=100"`
	State      string `json:"state" binding:"max=100"`
	PostalCode string `json:"postal_code" binding:"required,min=1,max=20"`
	Country    string `json:"country" binding:"required,min=2,max=100"`
	Phone      string `json:"phone" binding:"max=50"`
}

// TopUpRequest adds funds to the wallet, in cents
type TopUpRequest struct {
	Amount int64 `json:"amount" binding:"required,min=1"`
}

// AddressResponse represents an address in responses
type AddressResponse struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	Phone      string `json:"phone,omitempty"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID             uuid.UUID        `json:"id"`
	Email          string           `json:"email"`
	FullName       string           `json:"full_name,omitempty"`
	Phone          string           `json:"phone,omitempty"`
	Role           string           `json:"role"`
	Status         string           `json:"status"`
	EmailVerified  bool             `json:"email_verified"`
	DefaultAddress *AddressResponse `json:"default_address,omitempty"`
	WalletBalance  int64            `json:"wallet_balance"`
	CreatedAt      time.Time        `json:"created_at"`
}

// LoginResponse carries the issued token and the user it belongs to
type LoginResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// WalletResponse reports the wallet balance in cents
type WalletResponse struct {
	Balance int64 `json:"balance"`
}

// UserListFilter represents filter options for the admin user list
type UserListFilter struct {
	Search   string `form:"search"`
	Role     string `form:"role" binding:"omitempty,oneof=customer admin"`
	Status   string `form:"status" binding:"omitempty,oneof=active locked deactivated"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

func toAddressResponse(a *valueobject.Address) *AddressResponse {
	if a == nil || a.IsZero() {
		return nil
	}
	return &AddressResponse{
		Street:     a.Street(),
		City:       a.City(),
		State:      a.State(),
		PostalCode: a.PostalCode(),
		Country:    a.Country(),
		Phone:      a.Phone(),
	}
}

// ToUserResponse converts a domain User to UserResponse
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:             u.ID,
		Email:          u.Email,
		FullName:       u.FullName,
		Phone:          u.Phone,
		Role:           string(u.Role),
		Status:         string(u.Status),
		EmailVerified:  u.EmailVerified,
		DefaultAddress: toAddressResponse(u.DefaultAddress),
		WalletBalance:  u.WalletBalance,
		CreatedAt:      u.CreatedAt,
	}
}

// ToUserResponses converts a slice of domain Users
func ToUserResponses(users []identity.User) []UserResponse {
	responses := make([]UserResponse, len(users))
	for i := range users {
		responses[i] = ToUserResponse(&users[i])
	}
	return responses
}
