package identity

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/email"
)

const (
	maxLoginAttempts = 5
	lockDuration     = 15 * time.Minute
)

var errInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")

// Service handles registration, authentication and profile management
type Service struct {
	userRepo identity.UserRepository
	jwt      *auth.JWTService
	mailer   email.Mailer
	logger   *zap.Logger
}

// NewService creates a new identity Service
func NewService(userRepo identity.UserRepository, jwt *auth.JWTService, mailer email.Mailer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		userRepo: userRepo,
		jwt:      jwt,
		mailer:   mailer,
		logger:   logger,
	}
}

// Register creates a new customer account and emails a verification code
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*UserResponse, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "An account with this email already exists")
	}

	user, err := identity.NewUser(req.Email, req.Password, req.FullName)
	if err != nil {
		return nil, err
	}

	code, err := generateOTP()
	if err != nil {
		return nil, err
	}
	if err := user.IssueOTP(code); err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.sendEmail(user.Email, "Verify your email",
		fmt.Sprintf("Welcome! Your verification code is %s. It expires in %d minutes.",
			code, int(identity.OTPValidity.Minutes())))

	response := ToUserResponse(user)
	return &response, nil
}

// Login authenticates a user and issues a JWT
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	if user.IsLocked() {
		return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Account is temporarily locked, try again later")
	}
	if user.Status == identity.UserStatusDeactivated {
		return nil, shared.NewDomainError("ACCOUNT_DISABLED", "Account has been deactivated")
	}

	if !user.VerifyPassword(req.Password) {
		locked := user.RecordLoginFailure(maxLoginAttempts, lockDuration)
		if err := s.userRepo.Save(ctx, user); err != nil {
			return nil, err
		}
		if locked {
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Too many failed attempts, account is temporarily locked")
		}
		return nil, errInvalidCredentials
	}

	if !user.EmailVerified {
		return nil, shared.NewDomainError("EMAIL_NOT_VERIFIED", "Verify your email before logging in")
	}

	user.RecordLoginSuccess()
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.jwt.Generate(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		Token:     token.Value,
		TokenType: token.TokenType,
		ExpiresAt: token.ExpiresAt,
		User:      ToUserResponse(user),
	}, nil
}

// VerifyEmail confirms the account with the emailed one-time code
func (s *Service) VerifyEmail(ctx context.Context, req VerifyEmailRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}

	if err := user.VerifyEmail(req.Code); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	response := ToUserResponse(user)
	return &response, nil
}

// ResendOTP issues a fresh verification code
func (s *Service) ResendOTP(ctx context.Context, req ResendOTPRequest) error {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return err
	}

	code, err := generateOTP()
	if err != nil {
		return err
	}
	if err := user.IssueOTP(code); err != nil {
		return err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}

	s.sendEmail(user.Email, "Verify your email",
		fmt.Sprintf("Your verification code is %s. It expires in %d minutes.",
			code, int(identity.OTPValidity.Minutes())))
	return nil
}

// ForgotPassword starts a password reset. The response is identical
// whether or not the email exists.
func (s *Service) ForgotPassword(ctx context.Context, req ForgotPasswordRequest) error {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}

	token, err := generateResetToken()
	if err != nil {
		return err
	}
	user.IssueResetToken(token)
	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}

	s.sendEmail(user.Email, "Reset your password",
		fmt.Sprintf("Your password reset token is %s. It expires in %d minutes.",
			token, int(identity.ResetTokenValidity.Minutes())))
	return nil
}

// ResetPassword completes a password reset with the emailed token
func (s *Service) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return err
	}

	if err := user.ResetPassword(req.Token, req.NewPassword); err != nil {
		return err
	}
	return s.userRepo.Save(ctx, user)
}

// ChangePassword changes the password of a logged-in user
func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := user.ChangePassword(req.OldPassword, req.NewPassword); err != nil {
		return err
	}
	return s.userRepo.Save(ctx, user)
}

// Me returns the profile of the logged-in user
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	response := ToUserResponse(user)
	return &response, nil
}

// UpdateProfile updates profile fields
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := user.UpdateProfile(req.FullName, req.Phone); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	response := ToUserResponse(user)
	return &response, nil
}

// SetDefaultAddress sets the default shipping address
func (s *Service) SetDefaultAddress(ctx context.Context, userID uuid.UUID, req SetAddressRequest) (*UserResponse, error) {
	address, err := valueobject.NewAddress(req.Street, req.City, req.State, req.PostalCode, req.Country, valueobject.WithPhone(req.Phone))
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := user.SetDefaultAddress(address); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	response := ToUserResponse(user)
	return &response, nil
}

// GetWallet returns the wallet balance
func (s *Service) GetWallet(ctx context.Context, userID uuid.UUID) (*WalletResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &WalletResponse{Balance: user.WalletBalance}, nil
}

// TopUpWallet credits the wallet with a simulated deposit
func (s *Service) TopUpWallet(ctx context.Context, userID uuid.UUID, req TopUpRequest) (*WalletResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := user.CreditWallet(req.Amount); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	return &WalletResponse{Balance: user.WalletBalance}, nil
}

// sendEmail delivers asynchronously; failures are logged, never returned
func (s *Service) sendEmail(to, subject, body string) {
	if s.mailer == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.mailer.Send(ctx, email.Message{To: to, Subject: subject, Body: body}); err != nil {
			s.logger.Warn("Email delivery failed", zap.String("subject", subject), zap.Error(err))
		}
	}()
}

// generateOTP returns a 6-digit numeric code
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// generateResetToken returns a 64-character hex token
func generateResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
