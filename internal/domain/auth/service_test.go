package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/hotelbook/hotel-api/internal/domain/user"
	"github.com/hotelbook/hotel-api/internal/pkg/jwt"
)

type fakeUserRepo struct {
	users []*user.User
}

func (f *fakeUserRepo) Create(ctx context.Context, u *user.User) error {
	f.users = append(f.users, u)
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	for _, u := range f.users {
		if u.Username == username || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) AdminExists(ctx context.Context) (bool, error) {
	for _, u := range f.users {
		if u.IsAdmin {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) UpdateProfilePicture(ctx context.Context, id uuid.UUID, url string) error {
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func newTestService() (*Service, *fakeUserRepo, *jwt.Service) {
	repo := &fakeUserRepo{}
	jwtService := jwt.NewService("secret", 2*time.Hour)
	return NewService(repo, jwtService), repo, jwtService
}

func TestRegisterNormalizesAndHashes(t *testing.T) {
	svc, repo, _ := newTestService()

	resp, err := svc.Register(context.Background(), &RegisterRequest{Username: " ann ", Email: " Ann@Example.com ", Password: "secret1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if resp.Email != "ann@example.com" || resp.Username != "ann" {
		t.Fatalf("unexpected normalization: %+v", resp)
	}
	if repo.users[0].PasswordHash == "secret1" {
		t.Fatal("password stored in clear text")
	}
}

func TestRegisterDateOfBirth(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, &RegisterRequest{Username: "ann", Email: "ann@example.com", Password: "secret1", Dob: "1990-02-03"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	dob := repo.users[0].DateOfBirth
	if dob == nil || dob.Format(time.DateOnly) != "1990-02-03" {
		t.Fatalf("unexpected date of birth %v", dob)
	}
	if got := repo.users[0].ToProfile().DateOfBirth; got != "1990-02-03" {
		t.Fatalf("unexpected profile dob %q", got)
	}

	_, err := svc.Register(ctx, &RegisterRequest{Username: "bob", Email: "bob@example.com", Password: "secret1", Dob: "1990-02-03T00:00:00Z"})
	if !errors.Is(err, ErrInvalidDateOfBirth) {
		t.Fatalf("expected ErrInvalidDateOfBirth, got %v", err)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, &RegisterRequest{Username: "ann", Email: "ann@example.com", Password: "secret1"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, err := svc.Register(ctx, &RegisterRequest{Username: "ann", Email: "other@example.com", Password: "secret1"})
	if !errors.Is(err, user.ErrUserAlreadyExists) {
		t.Fatalf("expected ErrUserAlreadyExists, got %v", err)
	}
}

func TestRegisterSecondAdmin(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, &RegisterRequest{Username: "root", Email: "root@example.com", Password: "secret1", IsAdmin: true}); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, err := svc.Register(ctx, &RegisterRequest{Username: "root2", Email: "root2@example.com", Password: "secret1", IsAdmin: true})
	if !errors.Is(err, user.ErrAdminAlreadyExists) {
		t.Fatalf("expected ErrAdminAlreadyExists, got %v", err)
	}
}

func TestLoginIssuesAdminClaim(t *testing.T) {
	svc, _, jwtService := newTestService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, &RegisterRequest{Username: "root", Email: "root@example.com", Password: "secret1", IsAdmin: true}); err != nil {
		t.Fatalf("register: %v", err)
	}

	resp, err := svc.Login(ctx, &LoginRequest{Email: "ROOT@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.ExpiresIn != int64((2 * time.Hour).Seconds()) {
		t.Fatalf("unexpected expiresIn %d", resp.ExpiresIn)
	}
	claims, err := jwtService.ValidateAccessToken(resp.Token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !claims.IsAdmin || claims.UserID != resp.User.ID {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, &RegisterRequest{Username: "ann", Email: "ann@example.com", Password: "secret1"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Login(ctx, &LoginRequest{Email: "ann@example.com", Password: "nope"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(ctx, &LoginRequest{Email: "ghost@example.com", Password: "nope"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestHandlerRegisterAndLogin(t *testing.T) {
	svc, _, _ := newTestService()
	router := NewHandler(svc).Routes()

	body, _ := json.Marshal(RegisterRequest{Username: "ann", Email: "ann@example.com", Password: "secret1"})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(body)))
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(body)))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 on duplicate, got %d", rr.Code)
	}

	body, _ = json.Marshal(LoginRequest{Email: "ann@example.com", Password: "secret1"})
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body)))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}

	var out struct {
		Data AuthResponse `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Data.Token == "" || out.Data.User.Username != "ann" {
		t.Fatalf("unexpected login body: %s", rr.Body.String())
	}
}

func TestHandlerLoginInvalidCredentials(t *testing.T) {
	svc, _, _ := newTestService()
	router := NewHandler(svc).Routes()

	body, _ := json.Marshal(LoginRequest{Email: "ghost@example.com", Password: "whatever"})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body)))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestHandlerRegisterPasswordTooLongForHash(t *testing.T) {
	svc, repo, _ := newTestService()
	router := NewHandler(svc).Routes()

	// 40 characters passes validation but is 120 bytes
	body, _ := json.Marshal(RegisterRequest{Username: "ann", Email: "ann@example.com", Password: strings.Repeat("€", 40)})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(body)))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), `"password"`) {
		t.Fatalf("expected password detail, got %s", rr.Body.String())
	}
	if len(repo.users) != 0 {
		t.Fatal("expected no account to be created")
	}
}
