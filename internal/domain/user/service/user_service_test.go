package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"trendgram/internal/domain/user/model"
	"trendgram/internal/pkg/config"
	"trendgram/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func init() {
	// 测试环境的最小配置
	config.GlobalConfig.JWT.Secret = "test-secret-test-secret-test-secret-xx"
	config.GlobalConfig.JWT.Expire = 24
	config.GlobalConfig.Security.PasswordMinLength = 8
}

// MockUserRepository is a mock of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(id uint) (*model.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(username string) (*model.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) Update(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetList(offset, limit int) ([]model.User, int64, error) {
	args := m.Called(offset, limit)
	return args.Get(0).([]model.User), args.Get(1).(int64), args.Error(2)
}

// MockSessionStore is a mock of session.Store
type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) Create(ctx context.Context, sessionID string, userID uint, ttl time.Duration) error {
	args := m.Called(ctx, sessionID, userID, ttl)
	return args.Error(0)
}

func (m *MockSessionStore) Exists(ctx context.Context, sessionID string) (bool, error) {
	args := m.Called(ctx, sessionID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSessionStore) Destroy(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func hashOf(password string) string {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return string(hash)
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("New user registration success", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockSessions := new(MockSessionStore)
		svc := NewUserService(mockRepo, mockSessions)

		mockRepo.On("GetByUsername", "alice").Return(nil, gorm.ErrRecordNotFound)
		mockRepo.On("Create", mock.AnythingOfType("*model.User")).Return(nil)
		mockSessions.On("Create", ctx, mock.AnythingOfType("string"), mock.AnythingOfType("uint"), mock.AnythingOfType("time.Duration")).Return(nil)

		result, err := svc.Register(ctx, "alice", "password123", "hello")

		assert.NoError(t, err)
		assert.NotEmpty(t, result.Token)
		assert.Equal(t, "alice", result.User.Username)
		assert.False(t, result.User.IsPrivate)
		assert.NotEqual(t, "password123", result.User.PasswordHash, "password must be hashed")
		mockRepo.AssertExpectations(t)
		mockSessions.AssertExpectations(t)
	})

	t.Run("Duplicate username", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockSessions := new(MockSessionStore)
		svc := NewUserService(mockRepo, mockSessions)

		existing := &model.User{Username: "alice"}
		mockRepo.On("GetByUsername", "alice").Return(existing, nil)

		result, err := svc.Register(ctx, "alice", "password123", "")

		assert.Nil(t, result)
		assert.ErrorIs(t, err, errs.ErrDuplicateUsername)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything)
	})

	t.Run("Empty username", func(t *testing.T) {
		svc := NewUserService(new(MockUserRepository), new(MockSessionStore))

		result, err := svc.Register(ctx, "   ", "password123", "")

		assert.Nil(t, result)
		assert.ErrorIs(t, err, errs.ErrInvalidInput)
	})

	t.Run("Password below policy minimum", func(t *testing.T) {
		svc := NewUserService(new(MockUserRepository), new(MockSessionStore))

		result, err := svc.Register(ctx, "bob", "short", "")

		assert.Nil(t, result)
		assert.ErrorIs(t, err, errs.ErrInvalidInput)
	})

	t.Run("Password beyond bcrypt limit", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		svc := NewUserService(mockRepo, new(MockSessionStore))

		result, err := svc.Register(ctx, "bob", strings.Repeat("x", 73), "")

		assert.Nil(t, result)
		assert.ErrorIs(t, err, errs.ErrInvalidInput)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything)
	})

	t.Run("Concurrent duplicate hits the unique index", func(t *testing.T) {
		// 查重通过后另一个请求先插入同名用户：
		// Create 撞唯一索引，必须映射成用户名冲突而不是内部错误
		mockRepo := new(MockUserRepository)
		mockSessions := new(MockSessionStore)
		svc := NewUserService(mockRepo, mockSessions)

		mockRepo.On("GetByUsername", "alice").Return(nil, gorm.ErrRecordNotFound)
		mockRepo.On("Create", mock.AnythingOfType("*model.User")).Return(gorm.ErrDuplicatedKey)

		result, err := svc.Register(ctx, "alice", "password123", "")

		assert.Nil(t, result)
		assert.ErrorIs(t, err, errs.ErrDuplicateUsername)
		mockSessions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("Login success", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockSessions := new(MockSessionStore)
		svc := NewUserService(mockRepo, mockSessions)

		user := &model.User{Username: "alice", PasswordHash: hashOf("password123")}
		user.ID = 1
		mockRepo.On("GetByUsername", "alice").Return(user, nil)
		mockSessions.On("Create", ctx, mock.AnythingOfType("string"), uint(1), mock.AnythingOfType("time.Duration")).Return(nil)

		result, err := svc.Login(ctx, "alice", "password123")

		assert.NoError(t, err)
		assert.NotEmpty(t, result.Token)
		mockSessions.AssertExpectations(t)
	})

	t.Run("Unknown username", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		svc := NewUserService(mockRepo, new(MockSessionStore))

		mockRepo.On("GetByUsername", "ghost").Return(nil, gorm.ErrRecordNotFound)

		result, err := svc.Login(ctx, "ghost", "whatever123")

		assert.Nil(t, result)
		assert.ErrorIs(t, err, errs.ErrNotFound)
	})

	t.Run("Wrong password", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		svc := NewUserService(mockRepo, new(MockSessionStore))

		user := &model.User{Username: "alice", PasswordHash: hashOf("password123")}
		mockRepo.On("GetByUsername", "alice").Return(user, nil)

		result, err := svc.Login(ctx, "alice", "wrongpass123")

		assert.Nil(t, result)
		assert.ErrorIs(t, err, errs.ErrInvalidCredentials)
	})
}

func TestLogout(t *testing.T) {
	ctx := context.Background()

	t.Run("Logout destroys session", func(t *testing.T) {
		mockSessions := new(MockSessionStore)
		svc := NewUserService(new(MockUserRepository), mockSessions)

		mockSessions.On("Destroy", ctx, "sid-1").Return(nil)

		assert.NoError(t, svc.Logout(ctx, "sid-1"))
		mockSessions.AssertExpectations(t)
	})

	t.Run("Logout without session is a no-op", func(t *testing.T) {
		mockSessions := new(MockSessionStore)
		svc := NewUserService(new(MockUserRepository), mockSessions)

		assert.NoError(t, svc.Logout(ctx, ""))
		mockSessions.AssertNotCalled(t, "Destroy", mock.Anything, mock.Anything)
	})
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("Update bio and privacy", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		svc := NewUserService(mockRepo, new(MockSessionStore))

		user := &model.User{Username: "alice", Bio: "old"}
		user.ID = 1
		mockRepo.On("GetByID", uint(1)).Return(user, nil)
		mockRepo.On("Update", mock.AnythingOfType("*model.User")).Return(nil)

		newBio := "new bio"
		private := true
		updated, err := svc.UpdateProfile(ctx, 1, UpdateProfileInput{Bio: &newBio, IsPrivate: &private})

		assert.NoError(t, err)
		assert.Equal(t, "new bio", updated.Bio)
		assert.True(t, updated.IsPrivate)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Unknown user", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		svc := NewUserService(mockRepo, new(MockSessionStore))

		mockRepo.On("GetByID", uint(42)).Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.UpdateProfile(ctx, 42, UpdateProfileInput{})

		assert.ErrorIs(t, err, errs.ErrNotFound)
	})
}
