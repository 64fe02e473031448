package services

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/resumatch/resumatch/internal/auth"
	"github.com/resumatch/resumatch/internal/cache"
	"github.com/resumatch/resumatch/internal/models"
	"github.com/resumatch/resumatch/internal/otp"
	"github.com/resumatch/resumatch/internal/utils"
)

type memUserRepo struct {
	byEmail map[string]*models.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byEmail: make(map[string]*models.User)}
}

func (r *memUserRepo) Create(ctx context.Context, u *models.User) error {
	r.byEmail[u.Email] = u
	return nil
}

func (r *memUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if u, ok := r.byEmail[email]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, ok := r.byEmail[email]
	return ok, nil
}

func (r *memUserRepo) TouchLogin(ctx context.Context, userID string, at time.Time) error {
	return nil
}

type captureMailer struct {
	to      string
	subject string
	html    string
	sends   int
}

func (m *captureMailer) Send(ctx context.Context, to, subject, html string) error {
	m.to, m.subject, m.html = to, subject, html
	m.sends++
	return nil
}

func newAuthFixture(t *testing.T) (*memUserRepo, *captureMailer, *otp.Store, AuthService) {
	t.Helper()

	mem := cache.NewMemoryCache(0)
	t.Cleanup(mem.Stop)

	users := newMemUserRepo()
	mailer := &captureMailer{}
	otpStore := otp.NewStore(mem, 0)
	tokens := auth.NewTokenIssuer("test-secret", "resumatch", time.Minute)

	svc := NewAuthService(users, otpStore, mem, mailer, tokens, testLogger())
	return users, mailer, otpStore, svc
}

// codeFromEmail digs the 6-digit code out of the captured mail body.
func codeFromEmail(t *testing.T, html string) string {
	t.Helper()
	start := -1
	for i := 0; i+6 <= len(html); i++ {
		digits := true
		for j := i; j < i+6; j++ {
			if html[j] < '0' || html[j] > '9' {
				digits = false
				break
			}
		}
		if digits {
			start = i
			break
		}
	}
	if start < 0 {
		t.Fatalf("no code in email body: %q", html)
	}
	return html[start : start+6]
}

func TestSignupFlow(t *testing.T) {
	users, mailer, _, svc := newAuthFixture(t)
	ctx := context.Background()

	if err := svc.InitialSignup(ctx, "USER@Example.com ", "longenough"); err != nil {
		t.Fatalf("InitialSignup: %v", err)
	}
	if mailer.sends != 1 || mailer.to != "user@example.com" {
		t.Fatalf("mail not sent to normalized address: %+v", mailer)
	}
	if _, ok := users.byEmail["user@example.com"]; ok {
		t.Fatal("user row created before verification")
	}

	code := codeFromEmail(t, mailer.html)
	token, user, err := svc.FinalSignup(ctx, "user@example.com", code)
	if err != nil {
		t.Fatalf("FinalSignup: %v", err)
	}
	if token == "" || user == nil || user.Email != "user@example.com" {
		t.Fatalf("token = %q, user = %+v", token, user)
	}
	if _, ok := users.byEmail["user@example.com"]; !ok {
		t.Fatal("user row missing after verification")
	}

	// A login with the original password proves the parked hash survived.
	if _, _, err := svc.Login(ctx, "user@example.com", "longenough"); err != nil {
		t.Errorf("Login after signup: %v", err)
	}
}

func TestInitialSignup_Validation(t *testing.T) {
	_, _, _, svc := newAuthFixture(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"empty email", "", "longenough"},
		{"bad email", "not-an-address", "longenough"},
		{"short password", "user@example.com", "short"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.InitialSignup(ctx, tt.email, tt.password)
			if !utils.IsCode(err, utils.CodeInvalidArgument) {
				t.Errorf("err = %v, want INVALID_ARGUMENT", err)
			}
		})
	}
}

func TestInitialSignup_DuplicateEmail(t *testing.T) {
	users, _, _, svc := newAuthFixture(t)
	users.byEmail["taken@example.com"] = &models.User{ID: "u1", Email: "taken@example.com"}

	err := svc.InitialSignup(context.Background(), "taken@example.com", "longenough")
	if !utils.IsCode(err, utils.CodeConflict) {
		t.Errorf("err = %v, want CONFLICT", err)
	}
}

func TestFinalSignup_WrongCode(t *testing.T) {
	_, _, _, svc := newAuthFixture(t)
	ctx := context.Background()

	if err := svc.InitialSignup(ctx, "user@example.com", "longenough"); err != nil {
		t.Fatalf("InitialSignup: %v", err)
	}

	_, _, err := svc.FinalSignup(ctx, "user@example.com", "000000")
	if !utils.IsCode(err, utils.CodeUnauthorized) {
		t.Errorf("err = %v, want UNAUTHORIZED", err)
	}
}

func TestFinalSignup_EmailTakenMeanwhile(t *testing.T) {
	users, mailer, _, svc := newAuthFixture(t)
	ctx := context.Background()

	if err := svc.InitialSignup(ctx, "user@example.com", "longenough"); err != nil {
		t.Fatalf("InitialSignup: %v", err)
	}
	code := codeFromEmail(t, mailer.html)

	// The email gets registered between the two signup phases.
	users.byEmail["user@example.com"] = &models.User{ID: "u1", Email: "user@example.com"}

	_, _, err := svc.FinalSignup(ctx, "user@example.com", code)
	if !utils.IsCode(err, utils.CodeConflict) {
		t.Fatalf("err = %v, want CONFLICT", err)
	}

	// The conflict must not consume the code: once the conflicting row
	// is gone the same code still completes the signup.
	delete(users.byEmail, "user@example.com")
	if _, _, err := svc.FinalSignup(ctx, "user@example.com", code); err != nil {
		t.Fatalf("FinalSignup with preserved code: %v", err)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	users, _, _, svc := newAuthFixture(t)
	ctx := context.Background()

	hash, err := utils.HashPassword("rightpassword")
	if err != nil {
		t.Fatal(err)
	}
	users.byEmail["user@example.com"] = &models.User{
		ID: "u1", Email: "user@example.com", PasswordHash: hash,
	}

	if _, _, err := svc.Login(ctx, "user@example.com", "wrongpassword"); !utils.IsCode(err, utils.CodeUnauthorized) {
		t.Errorf("wrong password: err = %v, want UNAUTHORIZED", err)
	}
	if _, _, err := svc.Login(ctx, "ghost@example.com", "whatever"); !utils.IsCode(err, utils.CodeUnauthorized) {
		t.Errorf("unknown email: err = %v, want UNAUTHORIZED", err)
	}
}
