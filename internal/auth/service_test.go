package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"tourdesk/internal/shared/config"
	"tourdesk/internal/users"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeRepository struct {
	mu    sync.Mutex
	users map[string]*users.User
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{users: map[string]*users.User{}}
}

func (f *fakeRepository) CreateUser(_ context.Context, user *users.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Email == user.Email {
			return ErrUserAlreadyExists
		}
	}
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	f.users[user.ID.String()] = user
	return nil
}

func (f *fakeRepository) GetUserByEmail(_ context.Context, email string) (*users.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Email == users.NormalizeEmail(email) {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (f *fakeRepository) GetUserByID(_ context.Context, id string) (*users.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, ErrUserNotFound
}

func (f *fakeRepository) UpdateUserPassword(_ context.Context, id string, hashed string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[id]
	if !ok {
		return ErrUserNotFound
	}
	u.Password = hashed
	return nil
}

func (f *fakeRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := f.GetUserByEmail(ctx, email)
	return err == nil, nil
}

func testConfig() *config.Config {
	return &config.Config{JWT: config.JWTConfig{
		Secret:           "test-secret",
		JWTExpiresIn:     15 * time.Minute,
		RefreshExpiresIn: time.Hour,
	}}
}

func registerRequest() *RegisterRequest {
	return &RegisterRequest{
		FirstName: "Ana",
		LastName:  "Silva",
		Email:     "Ana@Example.com",
		Password:  "harbour-pass",
	}
}

func TestRegisterCreatesCustomer(t *testing.T) {
	svc := NewService(newFakeRepository(), testConfig())

	resp, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	assert.Equal(t, "ana@example.com", resp.User.Email)
	assert.Equal(t, string(users.RoleUser), resp.User.Role)
	assert.Equal(t, int64(900), resp.ExpiresIn)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeAccess, claims.Type)
	assert.Equal(t, resp.User.ID, claims.UserID)

	_, err = svc.Register(context.Background(), registerRequest())
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestLogin(t *testing.T) {
	svc := NewService(newFakeRepository(), testConfig())
	_, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), &LoginRequest{Email: "ana@example.com", Password: "harbour-pass"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.RefreshToken)

	_, err = svc.Login(context.Background(), &LoginRequest{Email: "ana@example.com", Password: "wrong-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), &LoginRequest{Email: "nobody@example.com", Password: "harbour-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshTokenUsesCurrentRole(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, testConfig())

	resp, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	// Access tokens are not accepted for refresh
	_, err = svc.RefreshToken(context.Background(), resp.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	repo.users[resp.User.ID].Role = users.RoleAdmin

	pair, err := svc.RefreshToken(context.Background(), resp.RefreshToken)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, string(users.RoleAdmin), claims.Role)
}

func TestValidateTokenExpired(t *testing.T) {
	s := NewService(newFakeRepository(), testConfig()).(*service)
	s.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	pair, err := s.generateTokenPair(uuid.NewString(), "a@b.co", "USER")
	require.NoError(t, err)

	_, err = s.ValidateToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenExpired)

	_, err = s.ValidateToken("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestChangePassword(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, testConfig())
	resp, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	err = svc.ChangePassword(context.Background(), resp.User.ID, &ChangePasswordRequest{
		CurrentPassword: "wrong-pass",
		NewPassword:     "new-harbour-pass",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	err = svc.ChangePassword(context.Background(), resp.User.ID, &ChangePasswordRequest{
		CurrentPassword: "harbour-pass",
		NewPassword:     "new-harbour-pass",
	})
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.users[resp.User.ID].Password), []byte("new-harbour-pass")))
}

func TestRegisterHandlerValidation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := NewController(NewService(newFakeRepository(), testConfig()))

	router := gin.New()
	router.POST("/register", ctrl.Register)

	post := func(body string) int {
		req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusBadRequest, post(`{"first_name":"Ana","last_name":"Silva","email":"bad","password":"harbour-pass"}`))
	assert.Equal(t, http.StatusBadRequest, post(`{"first_name":"Ana","last_name":"Silva","email":"ana@example.com","password":"short"}`))
	assert.Equal(t, http.StatusCreated, post(`{"first_name":"Ana","last_name":"Silva","email":"ana@example.com","password":"harbour-pass"}`))
	assert.Equal(t, http.StatusConflict, post(`{"first_name":"Ana","last_name":"Silva","email":"ANA@example.com","password":"harbour-pass"}`))
}
