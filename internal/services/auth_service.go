package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/resumatch/resumatch/internal/auth"
	"github.com/resumatch/resumatch/internal/cache"
	mailpkg "github.com/resumatch/resumatch/internal/mail"
	"github.com/resumatch/resumatch/internal/models"
	"github.com/resumatch/resumatch/internal/otp"
	pgrepo "github.com/resumatch/resumatch/internal/repositories/postgres"
	"github.com/resumatch/resumatch/internal/utils"
)

// pendingTTL matches the OTP lifetime: a signup abandoned past the code's
// expiry leaves nothing behind.
const pendingTTL = otp.DefaultTTL

const minPasswordLen = 8

type AuthService interface {
	InitialSignup(ctx context.Context, email, password string) error
	FinalSignup(ctx context.Context, email, code string) (string, *models.User, error)
	Login(ctx context.Context, email, password string) (string, *models.User, error)
}

type authService struct {
	users  pgrepo.UserRepository
	otp    *otp.Store
	cache  cache.Cache
	mailer mailpkg.Sender
	tokens *auth.TokenIssuer
	log    *logrus.Logger
}

func NewAuthService(users pgrepo.UserRepository, otpStore *otp.Store, c cache.Cache, mailer mailpkg.Sender, tokens *auth.TokenIssuer, log *logrus.Logger) AuthService {
	return &authService{
		users:  users,
		otp:    otpStore,
		cache:  c,
		mailer: mailer,
		tokens: tokens,
		log:    log,
	}
}

func pendingKey(email string) string { return "pending-signup:" + email }

// InitialSignup validates the credentials, emails a verification code,
// and parks the hashed password until FinalSignup. No user row exists
// yet; an unverified signup leaves no trace after the code expires.
func (s *authService) InitialSignup(ctx context.Context, email, password string) error {
	const op = "AuthService.InitialSignup"

	email = normalizeEmail(email)
	if err := validateCredentials(op, email, password); err != nil {
		return err
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return utils.E(utils.CodeInternal, op, "failed to check existing account", err)
	}
	if exists {
		return utils.E(utils.CodeConflict, op, "an account with this email already exists", nil)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return utils.E(utils.CodeInternal, op, "failed to hash password", err)
	}
	if err := s.cache.SetJSON(ctx, pendingKey(email), hash, pendingTTL); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to store pending signup", err)
	}

	code, err := s.otp.Generate(ctx, email)
	if err != nil {
		return err
	}

	subject := "Your verification code"
	body := fmt.Sprintf("<p>Your verification code is <strong>%s</strong>. It expires in %d minutes.</p>",
		code, int(otp.DefaultTTL.Minutes()))
	if err := s.mailer.Send(ctx, email, subject, body); err != nil {
		return utils.E(utils.CodeUnavailable, op, "failed to send verification email", err)
	}

	s.log.WithField("email", email).Info("signup verification code sent")
	return nil
}

// FinalSignup consumes the OTP, creates the account from the parked
// hash, and returns a session token.
func (s *authService) FinalSignup(ctx context.Context, email, code string) (string, *models.User, error) {
	const op = "AuthService.FinalSignup"

	email = normalizeEmail(email)
	if email == "" || code == "" {
		return "", nil, utils.E(utils.CodeInvalidArgument, op, "email and code are required", nil)
	}

	// Re-check for a conflicting account before consuming the single-use
	// code: if the email was registered between the two phases, the
	// caller keeps a usable code instead of burning it on a doomed
	// Create.
	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return "", nil, utils.E(utils.CodeInternal, op, "failed to check existing account", err)
	}
	if exists {
		return "", nil, utils.E(utils.CodeConflict, op, "an account with this email already exists", nil)
	}

	if err := s.otp.Verify(ctx, email, code); err != nil {
		return "", nil, err
	}

	var hash string
	hit, err := s.cache.GetJSON(ctx, pendingKey(email), &hash)
	if err != nil {
		return "", nil, utils.E(utils.CodeInternal, op, "failed to read pending signup", err)
	}
	if !hit {
		return "", nil, utils.E(utils.CodeUnauthorized, op, "signup expired, start over", nil)
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		LastLoginAt:  now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return "", nil, utils.E(utils.CodeInternal, op, "failed to create account", err)
	}
	if err := s.cache.Del(ctx, pendingKey(email)); err != nil {
		s.log.WithError(err).Warn("failed to clear pending signup")
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", nil, err
	}

	s.log.WithField("user_id", user.ID).Info("account created")
	return token, user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	const op = "AuthService.Login"

	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, utils.E(utils.CodeInvalidArgument, op, "email and password are required", nil)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Same message as a bad password; do not leak which emails exist.
			return "", nil, utils.E(utils.CodeUnauthorized, op, "invalid credentials", nil)
		}
		return "", nil, utils.E(utils.CodeInternal, op, "failed to look up account", err)
	}
	if err := utils.CheckPassword(user.PasswordHash, password); err != nil {
		return "", nil, utils.E(utils.CodeUnauthorized, op, "invalid credentials", nil)
	}

	if err := s.users.TouchLogin(ctx, user.ID, time.Now()); err != nil {
		s.log.WithError(err).Warn("failed to record login time")
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateCredentials(op, email, password string) error {
	if email == "" || password == "" {
		return utils.E(utils.CodeInvalidArgument, op, "email and password are required", nil)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return utils.E(utils.CodeInvalidArgument, op, "invalid email address", nil)
	}
	if len(password) < minPasswordLen {
		return utils.E(utils.CodeInvalidArgument, op, "password must be at least 8 characters", nil)
	}
	return nil
}
