package auth

import (
	"context"
	"testing"

	domainErrors "vaultpay/internal/errors"
	"vaultpay/internal/models"
	"vaultpay/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
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

type MockProvisioner struct {
	mock.Mock
}

func (m *MockProvisioner) Create(ctx context.Context, userID uint) (*models.Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Wallet), args.Error(1)
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hashed)
}

func TestRegister_CreatesUserWalletAndSignsIn(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	users := new(MockUserRepository)
	users.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*models.User).ID = 7
		}).
		Return(nil).Once()

	wallets := new(MockProvisioner)
	wallets.On("Create", mock.Anything, uint(7)).
		Return(&models.Wallet{ID: 4, UserID: 7, WalletNumber: "5200000001"}, nil).Once()

	svc := NewService(users, wallets)
	user, access, refresh, err := svc.Register(context.Background(), models.CreateUserInput{
		Name:     " Ada Obi ",
		Email:    "  Ada@Example.COM ",
		Password: "Sup3rSecret",
	})
	require.NoError(t, err)

	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, "Ada Obi", user.Name)
	assert.Equal(t, "user", user.Role)

	// The stored password is a hash, never the plaintext.
	assert.NotEqual(t, "Sup3rSecret", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("Sup3rSecret")))

	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)

	_, claims, err := utils.ParseToken(access)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)

	users.AssertExpectations(t)
	wallets.AssertExpectations(t)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	users := new(MockUserRepository)
	users.On("Create", mock.Anything, mock.Anything).Return(domainErrors.ErrEmailTaken).Once()

	wallets := new(MockProvisioner)

	svc := NewService(users, wallets)
	_, _, _, err := svc.Register(context.Background(), models.CreateUserInput{
		Email:    "ada@example.com",
		Password: "Sup3rSecret",
	})

	assert.ErrorIs(t, err, domainErrors.ErrEmailTaken)
	wallets.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_WalletProvisionFailureSurfaces(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	users := new(MockUserRepository)
	users.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			args.Get(1).(*models.User).ID = 7
		}).
		Return(nil).Once()

	wallets := new(MockProvisioner)
	wallets.On("Create", mock.Anything, uint(7)).
		Return(nil, domainErrors.ErrWalletNumbersExhausted).Once()

	svc := NewService(users, wallets)
	_, _, _, err := svc.Register(context.Background(), models.CreateUserInput{
		Email:    "ada@example.com",
		Password: "Sup3rSecret",
	})

	assert.ErrorIs(t, err, domainErrors.ErrWalletNumbersExhausted)
}

func TestLogin_Success(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	stored := &models.User{
		Email:        "ada@example.com",
		Password:     hashPassword(t, "Sup3rSecret"),
		TokenVersion: 3,
	}
	stored.ID = 7

	users := new(MockUserRepository)
	users.On("GetByEmail", mock.Anything, "ada@example.com").Return(stored, nil).Once()
	users.On("UpdateLastLogin", mock.Anything, uint(7)).Return(nil).Once()

	svc := NewService(users, new(MockProvisioner))
	user, access, refresh, err := svc.Login(context.Background(), models.LoginInput{
		Email:    " ADA@example.com ",
		Password: "Sup3rSecret",
	})
	require.NoError(t, err)

	assert.Equal(t, uint(7), user.ID)
	assert.NotEmpty(t, refresh)

	_, claims, err := utils.ParseToken(access)
	require.NoError(t, err)
	assert.Equal(t, 3, claims.TokenVersion)

	users.AssertExpectations(t)
}

func TestLogin_BadCredentials(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	stored := &models.User{
		Email:    "ada@example.com",
		Password: hashPassword(t, "Sup3rSecret"),
	}

	users := new(MockUserRepository)
	users.On("GetByEmail", mock.Anything, "ada@example.com").Return(stored, nil).Once()
	users.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, domainErrors.ErrUserNotFound).Once()

	svc := NewService(users, new(MockProvisioner))

	// Wrong password and unknown email give the same answer.
	_, _, _, err := svc.Login(context.Background(), models.LoginInput{
		Email:    "ada@example.com",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, domainErrors.ErrInvalidCredentials)

	_, _, _, err = svc.Login(context.Background(), models.LoginInput{
		Email:    "ghost@example.com",
		Password: "Sup3rSecret",
	})
	assert.ErrorIs(t, err, domainErrors.ErrInvalidCredentials)
}

func TestRefreshTokens_RotatesPair(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	stored := &models.User{Email: "ada@example.com", TokenVersion: 3}
	stored.ID = 7

	_, refresh, err := utils.GenerateTokens(&models.UserClaims{
		UserID:       7,
		Email:        stored.Email,
		TokenVersion: 3,
	})
	require.NoError(t, err)

	users := new(MockUserRepository)
	users.On("GetByID", mock.Anything, uint(7)).Return(stored, nil).Once()

	svc := NewService(users, new(MockProvisioner))
	access, newRefresh, err := svc.RefreshTokens(context.Background(), refresh)
	require.NoError(t, err)

	_, claims, err := utils.ParseToken(access)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.NotEmpty(t, newRefresh)
}

func TestRefreshTokens_StaleVersionRejected(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	_, refresh, err := utils.GenerateTokens(&models.UserClaims{UserID: 7, TokenVersion: 3})
	require.NoError(t, err)

	// The user logged out since the token was issued.
	stored := &models.User{TokenVersion: 4}
	stored.ID = 7

	users := new(MockUserRepository)
	users.On("GetByID", mock.Anything, uint(7)).Return(stored, nil).Once()

	svc := NewService(users, new(MockProvisioner))
	_, _, err = svc.RefreshTokens(context.Background(), refresh)

	assert.ErrorIs(t, err, domainErrors.ErrUnauthorized)
}

func TestRefreshTokens_GarbageRejected(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	svc := NewService(new(MockUserRepository), new(MockProvisioner))
	_, _, err := svc.RefreshTokens(context.Background(), "not-a-token")

	assert.ErrorIs(t, err, domainErrors.ErrUnauthorized)
}

func TestLogout_InvalidatesTokens(t *testing.T) {
	users := new(MockUserRepository)
	users.On("IncrementTokenVersion", mock.Anything, uint(7)).Return(nil).Once()

	svc := NewService(users, new(MockProvisioner))
	require.NoError(t, svc.Logout(context.Background(), 7))
	users.AssertExpectations(t)
}

func TestChangePassword(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	t.Run("rotates hash and bumps token version", func(t *testing.T) {
		stored := &models.User{Password: hashPassword(t, "OldSecret1"), TokenVersion: 3}
		stored.ID = 7

		users := new(MockUserRepository)
		users.On("GetByID", mock.Anything, uint(7)).Return(stored, nil).Once()
		users.On("Update", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
			return u.TokenVersion == 4 &&
				bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("NewSecret2")) == nil
		})).Return(nil).Once()

		svc := NewService(users, new(MockProvisioner))
		require.NoError(t, svc.ChangePassword(context.Background(), 7, "OldSecret1", "NewSecret2"))
		users.AssertExpectations(t)
	})

	t.Run("wrong old password", func(t *testing.T) {
		stored := &models.User{Password: hashPassword(t, "OldSecret1")}
		stored.ID = 7

		users := new(MockUserRepository)
		users.On("GetByID", mock.Anything, uint(7)).Return(stored, nil).Once()

		svc := NewService(users, new(MockProvisioner))
		err := svc.ChangePassword(context.Background(), 7, "wrong", "NewSecret2")
		assert.ErrorIs(t, err, domainErrors.ErrInvalidCredentials)
	})

	t.Run("weak new password", func(t *testing.T) {
		stored := &models.User{Password: hashPassword(t, "OldSecret1")}
		stored.ID = 7

		users := new(MockUserRepository)
		users.On("GetByID", mock.Anything, uint(7)).Return(stored, nil).Once()

		svc := NewService(users, new(MockProvisioner))
		err := svc.ChangePassword(context.Background(), 7, "OldSecret1", "short")
		assert.ErrorIs(t, err, domainErrors.ErrInvalidOperation)
		users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}
