package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"trendgram/internal/domain/user/model"
	"trendgram/internal/domain/user/repository"
	"trendgram/internal/pkg/config"
	"trendgram/internal/pkg/session"
	"trendgram/pkg/errs"
	"trendgram/pkg/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthResult 注册/登录结果：用户 + 已建立会话的 token
type AuthResult struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

// UpdateProfileInput 资料更新输入，nil 字段保持不变
type UpdateProfileInput struct {
	Bio        *string
	ProfilePic *string
	IsPrivate  *bool
}

// UserService 用户服务接口
type UserService interface {
	Register(ctx context.Context, username, password, bio string) (*AuthResult, error)
	Login(ctx context.Context, username, password string) (*AuthResult, error)
	Logout(ctx context.Context, sessionID string) error
	GetUser(ctx context.Context, id uint) (*model.User, error)
	UpdateProfile(ctx context.Context, id uint, input UpdateProfileInput) (*model.User, error)
	GetUsers(ctx context.Context, page, limit int) ([]model.User, int64, error)
}

// userService 实现
type userService struct {
	repo     repository.UserRepository
	sessions session.Store
}

// NewUserService 创建用户服务
func NewUserService(repo repository.UserRepository, sessions session.Store) UserService {
	return &userService{repo: repo, sessions: sessions}
}

// bcrypt 只接受 72 字节以内的口令，超长会直接报错
const passwordMaxBytes = 72

// passwordMinLength 密码最小长度策略（配置项，默认 8）
func passwordMinLength() int {
	if n := config.GlobalConfig.Security.PasswordMinLength; n > 0 {
		return n
	}
	return 8
}

// Register 注册并建立会话
func (s *userService) Register(ctx context.Context, username, password, bio string) (*AuthResult, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", errs.ErrInvalidInput)
	}
	if len(password) < passwordMinLength() {
		return nil, fmt.Errorf("%w: password must be at least %d characters", errs.ErrInvalidInput, passwordMinLength())
	}
	if len(password) > passwordMaxBytes {
		return nil, fmt.Errorf("%w: password must be at most %d bytes", errs.ErrInvalidInput, passwordMaxBytes)
	}

	// 先查重，给出明确错误；唯一索引兜底并发下的竞争
	if _, err := s.repo.GetByUsername(username); err == nil {
		return nil, errs.ErrDuplicateUsername
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:     username,
		PasswordHash: string(hash),
		Bio:          bio,
		IsPrivate:    false,
	}
	if err := s.repo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errs.ErrDuplicateUsername
		}
		return nil, err
	}

	token, err := s.issueSession(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token}, nil
}

// Login 校验凭证并建立会话
func (s *userService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	user, err := s.repo.GetByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %q", errs.ErrNotFound, username)
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errs.ErrInvalidCredentials
	}

	token, err := s.issueSession(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token}, nil
}

// Logout 注销会话（幂等：会话不存在时也成功）
func (s *userService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.sessions.Destroy(ctx, sessionID)
}

// issueSession 签发 token 并在 Redis 建立会话
func (s *userService) issueSession(ctx context.Context, userID uint) (string, error) {
	token, sessionID, expireAt, err := utils.GenerateToken(userID)
	if err != nil {
		return "", err
	}
	if err := s.sessions.Create(ctx, sessionID, userID, time.Until(expireAt)); err != nil {
		return "", err
	}
	return token, nil
}

// GetUser 获取单个用户
func (s *userService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d", errs.ErrNotFound, id)
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile 更新资料（bio / 头像 / 私密开关）
func (s *userService) UpdateProfile(ctx context.Context, id uint, input UpdateProfileInput) (*model.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Bio != nil {
		user.Bio = *input.Bio
	}
	if input.ProfilePic != nil {
		user.ProfilePic = input.ProfilePic
	}
	if input.IsPrivate != nil {
		user.IsPrivate = *input.IsPrivate
	}

	if err := s.repo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetUsers 获取用户列表（分页）
func (s *userService) GetUsers(ctx context.Context, page, limit int) ([]model.User, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	offset := (page - 1) * limit
	return s.repo.GetList(offset, limit)
}
