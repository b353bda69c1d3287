package user

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/hotelbook/hotel-api/internal/middleware"
	"github.com/hotelbook/hotel-api/internal/pkg/imaging"
	"github.com/hotelbook/hotel-api/internal/pkg/storage"
)

type memoryRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*User
}

func newMemoryRepo(users ...*User) *memoryRepo {
	m := &memoryRepo{users: map[uuid.UUID]*User{}}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *memoryRepo) Create(ctx context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return ErrUserAlreadyExists
		}
		if u.IsAdmin && existing.IsAdmin {
			return ErrAdminAlreadyExists
		}
	}
	m.users[u.ID] = u
	return nil
}

func (m *memoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *memoryRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == strings.ToLower(email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memoryRepo) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username || u.Email == strings.ToLower(email) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryRepo) AdminExists(ctx context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.IsAdmin {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryRepo) UpdateProfilePicture(ctx context.Context, id uuid.UUID, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return ErrUserNotFound
	}
	u.ProfilePicture = url
	return nil
}

func (m *memoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func newTestService(t *testing.T, users ...*User) (*Service, *memoryRepo, *storage.LocalStorage) {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir(), "http://localhost/uploads")
	if err != nil {
		t.Fatalf("local storage: %v", err)
	}
	repo := newMemoryRepo(users...)
	return NewService(repo, store, imaging.NewProcessor(imaging.DefaultConfig())), repo, store
}

func TestUploadProfilePictureReplacesOld(t *testing.T) {
	u := &User{ID: uuid.New(), Username: "ann", Email: "ann@example.com"}
	svc, repo, store := newTestService(t, u)
	ctx := context.Background()

	first, err := svc.UploadProfilePicture(ctx, u.ID, bytes.NewReader(pngBytes(t, 800, 400)))
	if err != nil {
		t.Fatalf("first upload: %v", err)
	}
	if !strings.HasPrefix(first, "http://localhost/uploads/profile-pictures/"+u.ID.String()+"/") {
		t.Fatalf("unexpected url %s", first)
	}

	second, err := svc.UploadProfilePicture(ctx, u.ID, bytes.NewReader(pngBytes(t, 300, 300)))
	if err != nil {
		t.Fatalf("second upload: %v", err)
	}

	oldKey, _ := store.KeyFromURL(first)
	if exists, _ := store.Exists(ctx, oldKey); exists {
		t.Fatal("expected previous picture to be deleted")
	}
	newKey, _ := store.KeyFromURL(second)
	if exists, _ := store.Exists(ctx, newKey); !exists {
		t.Fatal("expected new picture to be stored")
	}

	stored, _ := repo.GetByID(ctx, u.ID)
	if stored.ProfilePicture != second {
		t.Fatalf("expected profile picture %s, got %s", second, stored.ProfilePicture)
	}
}

func TestUploadProfilePictureRejectsText(t *testing.T) {
	u := &User{ID: uuid.New(), Username: "ann", Email: "ann@example.com"}
	svc, _, _ := newTestService(t, u)

	_, err := svc.UploadProfilePicture(context.Background(), u.ID, strings.NewReader("just some text"))
	if !errors.Is(err, storage.ErrInvalidMimeType) {
		t.Fatalf("expected ErrInvalidMimeType, got %v", err)
	}
}

func TestRemoveProfilePictureWithoutPicture(t *testing.T) {
	u := &User{ID: uuid.New(), Username: "ann", Email: "ann@example.com"}
	svc, _, _ := newTestService(t, u)

	if err := svc.RemoveProfilePicture(context.Background(), u.ID); !errors.Is(err, ErrNoProfilePicture) {
		t.Fatalf("expected ErrNoProfilePicture, got %v", err)
	}
}

func TestRemoveExternalPictureKeepsRemoteObject(t *testing.T) {
	u := &User{ID: uuid.New(), Username: "ann", Email: "ann@example.com", ProfilePicture: "https://cdn.example.com/a.jpg"}
	svc, repo, _ := newTestService(t, u)

	if err := svc.RemoveProfilePicture(context.Background(), u.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	stored, _ := repo.GetByID(context.Background(), u.ID)
	if stored.ProfilePicture != "" {
		t.Fatalf("expected picture cleared, got %q", stored.ProfilePicture)
	}
}

func TestDeleteAccount(t *testing.T) {
	u := &User{ID: uuid.New(), Username: "ann", Email: "ann@example.com"}
	svc, repo, _ := newTestService(t, u)
	ctx := context.Background()

	if err := svc.DeleteAccount(ctx, u.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got, _ := repo.GetByID(ctx, u.ID); got != nil {
		t.Fatal("expected user to be gone")
	}
	if err := svc.DeleteAccount(ctx, u.ID); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUploadHandlerMultipart(t *testing.T) {
	u := &User{ID: uuid.New(), Username: "ann", Email: "ann@example.com"}
	svc, _, _ := newTestService(t, u)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("profilePicture", "me.png")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	part.Write(pngBytes(t, 100, 100))
	mw.Close()

	auth := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(middleware.WithPrincipal(r.Context(), u.ID, false)))
		})
	}
	router := NewHandler(svc).Routes(auth)

	req := httptest.NewRequest(http.MethodPost, "/profile-picture", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "profilePictureUrl") {
		t.Fatalf("expected profilePictureUrl in %s", w.Body.String())
	}
}

func TestUploadHandlerMissingFile(t *testing.T) {
	u := &User{ID: uuid.New(), Username: "ann", Email: "ann@example.com"}
	svc, _, _ := newTestService(t, u)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	mw.WriteField("other", "x")
	mw.Close()

	auth := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(middleware.WithPrincipal(r.Context(), u.ID, false)))
		})
	}
	req := httptest.NewRequest(http.MethodPost, "/profile-picture", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	NewHandler(svc).Routes(auth).ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
