package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// UserStatus represents the status of a user account
type UserStatus string

const (
	UserStatusActive      UserStatus = "active"
	UserStatusLocked      UserStatus = "locked"
	UserStatusDeactivated UserStatus = "deactivated"
)

// UserRole determines which API surface a user may reach
type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleAdmin    UserRole = "admin"
)

// IsValid checks if the role is known
func (r UserRole) IsValid() bool {
	return r == RoleCustomer || r == RoleAdmin
}

// Password cost for bcrypt
const bcryptCost = 12

// OTPValidity is how long an emailed verification code stays usable
const OTPValidity = 15 * time.Minute

// ResetTokenValidity is how long a password reset token stays usable
const ResetTokenValidity = 1 * time.Hour

// User represents a storefront account. It is the aggregate root for
// authentication and profile operations. Verification codes and reset tokens
// are stored hashed; the plaintext only ever travels by email.
type User struct {
	shared.BaseAggregateRoot
	Email          string     `gorm:"type:varchar(200);not null;uniqueIndex"`
	PasswordHash   string     `gorm:"type:varchar(100);not null"`
	FullName       string     `gorm:"type:varchar(200)"`
	Phone          string     `gorm:"type:varchar(50)"`
	Role           UserRole   `gorm:"type:varchar(20);not null;default:'customer'"`
	Status         UserStatus `gorm:"type:varchar(20);not null;default:'active';index"`
	EmailVerified  bool       `gorm:"not null;default:false"`
	OTPHash        string     `gorm:"type:varchar(100)"`
	OTPExpiresAt   *time.Time
	ResetTokenHash string `gorm:"type:varchar(100)"`
	ResetExpiresAt *time.Time
	DefaultAddress *valueobject.Address `gorm:"type:jsonb"`
	LastLoginAt    *time.Time
	FailedAttempts int `gorm:"not null;default:0"`
	LockedUntil    *time.Time
	WalletBalance  int64 `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates a new active customer account with an unverified email
func NewUser(email, password, fullName string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	if fullName != "" && len(fullName) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Name cannot exceed 200 characters")
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	return &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             email,
		PasswordHash:      passwordHash,
		FullName:          strings.TrimSpace(fullName),
		Role:              RoleCustomer,
		Status:            UserStatusActive,
	}, nil
}

// NewAdmin creates a new admin account with a pre-verified email
func NewAdmin(email, password, fullName string) (*User, error) {
	user, err := NewUser(email, password, fullName)
	if err != nil {
		return nil, err
	}

	user.Role = RoleAdmin
	user.EmailVerified = true
	return user, nil
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// ChangePassword changes the user's password after checking the current one
func (u *User) ChangePassword(oldPassword, newPassword string) error {
	if !u.VerifyPassword(oldPassword) {
		return shared.NewDomainError("INVALID_PASSWORD", "Current password is incorrect")
	}
	return u.SetPassword(newPassword)
}

// SetPassword sets a new password without checking the old one. Any
// outstanding reset token is invalidated.
func (u *User) SetPassword(newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	passwordHash, err := hashPassword(newPassword)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	u.PasswordHash = passwordHash
	u.ResetTokenHash = ""
	u.ResetExpiresAt = nil
	u.touch()

	return nil
}

// IssueOTP stores the hash of a fresh email verification code
func (u *User) IssueOTP(code string) error {
	if u.EmailVerified {
		return shared.NewDomainError("ALREADY_VERIFIED", "Email is already verified")
	}

	expires := time.Now().Add(OTPValidity)
	u.OTPHash = hashToken(code)
	u.OTPExpiresAt = &expires
	u.touch()

	return nil
}

// VerifyEmail consumes a verification code. The code is single use and
// expires after OTPValidity.
func (u *User) VerifyEmail(code string) error {
	if u.EmailVerified {
		return shared.NewDomainError("ALREADY_VERIFIED", "Email is already verified")
	}
	if u.OTPHash == "" || u.OTPExpiresAt == nil {
		return shared.NewDomainError("INVALID_OTP", "No verification code has been issued")
	}
	if time.Now().After(*u.OTPExpiresAt) {
		return shared.NewDomainError("OTP_EXPIRED", "Verification code has expired")
	}
	if hashToken(code) != u.OTPHash {
		return shared.NewDomainError("INVALID_OTP", "Verification code is incorrect")
	}

	u.EmailVerified = true
	u.OTPHash = ""
	u.OTPExpiresAt = nil
	u.touch()

	return nil
}

// IssueResetToken stores the hash of a fresh password reset token
func (u *User) IssueResetToken(token string) {
	expires := time.Now().Add(ResetTokenValidity)
	u.ResetTokenHash = hashToken(token)
	u.ResetExpiresAt = &expires
	u.touch()
}

// ResetPassword consumes a reset token and sets a new password
func (u *User) ResetPassword(token, newPassword string) error {
	if u.ResetTokenHash == "" || u.ResetExpiresAt == nil {
		return shared.NewDomainError("INVALID_RESET_TOKEN", "No reset token has been issued")
	}
	if time.Now().After(*u.ResetExpiresAt) {
		return shared.NewDomainError("RESET_TOKEN_EXPIRED", "Reset token has expired")
	}
	if hashToken(token) != u.ResetTokenHash {
		return shared.NewDomainError("INVALID_RESET_TOKEN", "Reset token is invalid")
	}

	return u.SetPassword(newPassword)
}

// UpdateProfile updates name and phone
func (u *User) UpdateProfile(fullName, phone string) error {
	if fullName != "" && len(fullName) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Name cannot exceed 200 characters")
	}
	if phone != "" && len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 50 characters")
	}

	u.FullName = strings.TrimSpace(fullName)
	u.Phone = strings.TrimSpace(phone)
	u.touch()

	return nil
}

// SetDefaultAddress stores the user's default shipping address
func (u *User) SetDefaultAddress(address valueobject.Address) error {
	if address.IsZero() {
		return shared.NewDomainError("INVALID_ADDRESS", "Address cannot be empty")
	}

	u.DefaultAddress = &address
	u.touch()

	return nil
}

// CreditWallet adds funds to the simulated wallet balance, in minor units
func (u *User) CreditWallet(amount int64) error {
	if amount <= 0 {
		return shared.NewDomainError("INVALID_AMOUNT", "Credit amount must be positive")
	}

	u.WalletBalance += amount
	u.touch()

	return nil
}

// DebitWallet removes funds from the simulated wallet balance
func (u *User) DebitWallet(amount int64) error {
	if amount <= 0 {
		return shared.NewDomainError("INVALID_AMOUNT", "Debit amount must be positive")
	}
	if u.WalletBalance < amount {
		return shared.ErrInsufficientBalance
	}

	u.WalletBalance -= amount
	u.touch()

	return nil
}

// RecordLoginSuccess records a successful login
func (u *User) RecordLoginSuccess() {
	now := time.Now()
	u.LastLoginAt = &now
	u.FailedAttempts = 0
	u.touch()
}

// RecordLoginFailure records a failed login attempt.
// Returns true if the account got locked.
func (u *User) RecordLoginFailure(maxAttempts int, lockDuration time.Duration) bool {
	u.FailedAttempts++
	u.touch()

	if u.FailedAttempts >= maxAttempts {
		u.Status = UserStatusLocked
		lockedUntil := time.Now().Add(lockDuration)
		u.LockedUntil = &lockedUntil
		return true
	}

	return false
}

// Deactivate deactivates the account
func (u *User) Deactivate() error {
	if u.Status == UserStatusDeactivated {
		return shared.NewDomainError("ALREADY_DEACTIVATED", "User is already deactivated")
	}

	u.Status = UserStatusDeactivated
	u.touch()

	return nil
}

// Activate reactivates a locked or deactivated account
func (u *User) Activate() error {
	if u.Status == UserStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "User is already active")
	}

	u.Status = UserStatusActive
	u.FailedAttempts = 0
	u.LockedUntil = nil
	u.touch()

	return nil
}

// IsAdmin returns true for admin accounts
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsLocked returns true while a lock is in effect
func (u *User) IsLocked() bool {
	if u.Status != UserStatusLocked {
		return false
	}
	if u.LockedUntil != nil && time.Now().After(*u.LockedUntil) {
		return false
	}
	return true
}

// CanLogin returns true if the account may authenticate
func (u *User) CanLogin() bool {
	return u.Status != UserStatusDeactivated && !u.IsLocked()
}

func (u *User) touch() {
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
}

// Validation functions

func validateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}

	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}

	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot be empty")
	}
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 128 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 128 characters")
	}

	hasLetter := regexp.MustCompile(`[a-zA-Z]`).MatchString(password)
	hasNumber := regexp.MustCompile(`[0-9]`).MatchString(password)
	if !hasLetter || !hasNumber {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must contain at least one letter and one number")
	}

	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
