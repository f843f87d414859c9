package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	domainErrors "vaultpay/internal/errors"
	"vaultpay/internal/models"
	"vaultpay/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) IncrementTokenVersion(ctx context.Context, userID uint) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateLastLogin(ctx context.Context, userID uint) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockKeyService struct {
	mock.Mock
}

func (m *MockKeyService) Issue(ctx context.Context, userID uint, label string, permissions []string) (*models.APIKey, string, error) {
	args := m.Called(ctx, userID, label, permissions)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*models.APIKey), args.String(1), args.Error(2)
}

func (m *MockKeyService) List(ctx context.Context, userID uint) ([]models.APIKey, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.APIKey), args.Error(1)
}

func (m *MockKeyService) Revoke(ctx context.Context, userID, keyID uint) error {
	args := m.Called(ctx, userID, keyID)
	return args.Error(0)
}

func (m *MockKeyService) Authenticate(ctx context.Context, secret string) (*models.Principal, error) {
	args := m.Called(ctx, secret)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Principal), args.Error(1)
}

// probeApp mounts the middleware in front of a route that reports the
// authenticated principal back to the test.
func probeApp(m *AuthMiddleware, extra ...fiber.Handler) (*fiber.App, *models.Principal) {
	app := fiber.New()
	captured := &models.Principal{}

	handlers := []fiber.Handler{m.Handler}
	handlers = append(handlers, extra...)
	handlers = append(handlers, func(c *fiber.Ctx) error {
		principal, err := utils.GetPrincipal(c)
		if err != nil {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		*captured = *principal
		return c.SendStatus(fiber.StatusOK)
	})

	app.Get("/probe", handlers...)
	return app, captured
}

func mintToken(t *testing.T, userID uint, version int) string {
	t.Helper()
	access, _, err := utils.GenerateTokens(&models.UserClaims{
		UserID:       userID,
		Email:        "ada@example.com",
		TokenVersion: version,
	})
	require.NoError(t, err)
	return access
}

func TestHandler_SessionToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	user := &models.User{TokenVersion: 3}
	user.ID = 7

	users := new(MockUserRepository)
	users.On("GetByID", mock.Anything, uint(7)).Return(user, nil).Once()

	m := NewAuthMiddleware(users, new(MockKeyService))
	app, principal := probeApp(m)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, 7, 3))

	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, models.PrincipalSession, principal.Kind)
	assert.Equal(t, uint(7), principal.UserID)
}

func TestHandler_MissingCredentials(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	m := NewAuthMiddleware(new(MockUserRepository), new(MockKeyService))
	app, _ := probeApp(m)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/probe", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHandler_MalformedAuthorizationHeader(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	m := NewAuthMiddleware(new(MockUserRepository), new(MockKeyService))
	app, _ := probeApp(m)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Token abc123")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHandler_StaleTokenVersion(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	// The user logged out after the token was minted.
	user := &models.User{TokenVersion: 4}
	user.ID = 7

	users := new(MockUserRepository)
	users.On("GetByID", mock.Anything, uint(7)).Return(user, nil).Once()

	m := NewAuthMiddleware(users, new(MockKeyService))
	app, _ := probeApp(m)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, 7, 3))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHandler_APIKey(t *testing.T) {
	keys := new(MockKeyService)
	keys.On("Authenticate", mock.Anything, "vp_secret").Return(&models.Principal{
		Kind:        models.PrincipalAPIKey,
		UserID:      7,
		Permissions: []string{models.PermissionWalletRead},
	}, nil).Once()

	m := NewAuthMiddleware(new(MockUserRepository), keys)
	app, principal := probeApp(m)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("X-API-Key", "vp_secret")

	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, models.PrincipalAPIKey, principal.Kind)
	assert.Equal(t, uint(7), principal.UserID)
}

func TestHandler_RevokedAPIKey(t *testing.T) {
	keys := new(MockKeyService)
	keys.On("Authenticate", mock.Anything, "vp_secret").Return(nil, domainErrors.ErrAPIKeyRevoked).Once()

	m := NewAuthMiddleware(new(MockUserRepository), keys)
	app, _ := probeApp(m)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("X-API-Key", "vp_secret")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRequirePermission(t *testing.T) {
	keys := new(MockKeyService)
	keys.On("Authenticate", mock.Anything, "vp_secret").Return(&models.Principal{
		Kind:        models.PrincipalAPIKey,
		UserID:      7,
		Permissions: []string{models.PermissionWalletRead},
	}, nil)

	m := NewAuthMiddleware(new(MockUserRepository), keys)

	t.Run("scoped key passes its permission", func(t *testing.T) {
		app, _ := probeApp(m, RequirePermission(models.PermissionWalletRead))

		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		req.Header.Set("X-API-Key", "vp_secret")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("scoped key blocked outside its scope", func(t *testing.T) {
		app, _ := probeApp(m, RequirePermission(models.PermissionWalletTransfer))

		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		req.Header.Set("X-API-Key", "vp_secret")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("session passes everything", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "test-secret")

		user := &models.User{TokenVersion: 3}
		user.ID = 7
		users := new(MockUserRepository)
		users.On("GetByID", mock.Anything, uint(7)).Return(user, nil).Once()

		sm := NewAuthMiddleware(users, new(MockKeyService))
		app, _ := probeApp(sm, RequirePermission(models.PermissionWalletTransfer))

		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		req.Header.Set("Authorization", "Bearer "+mintToken(t, 7, 3))

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestRequireSession(t *testing.T) {
	keys := new(MockKeyService)
	keys.On("Authenticate", mock.Anything, "vp_secret").Return(&models.Principal{
		Kind:        models.PrincipalAPIKey,
		UserID:      7,
		Permissions: []string{models.PermissionWalletRead},
	}, nil).Once()

	m := NewAuthMiddleware(new(MockUserRepository), keys)
	app, _ := probeApp(m, RequireSession)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("X-API-Key", "vp_secret")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
