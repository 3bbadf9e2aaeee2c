package service

import (
	"context"
	"fmt"
	"time"

	"trendgram/internal/domain/user/model"
	"trendgram/pkg/cache"
	"trendgram/pkg/logger"

	"go.uber.org/zap"
)

// CachedUserService 带缓存的用户服务
// 只缓存读路径（GetUser），写路径委托内层服务并失效缓存
type CachedUserService struct {
	inner UserService
	cache cache.CacheService
}

// NewCachedUserService 创建带缓存的用户服务
func NewCachedUserService(inner UserService, cache cache.CacheService) UserService {
	return &CachedUserService{inner: inner, cache: cache}
}

// 缓存键常量
const (
	userCacheKeyPrefix = "user:"
	userCacheTTL       = time.Hour * 2
)

func userCacheKey(id uint) string {
	return fmt.Sprintf("%s%d", userCacheKeyPrefix, id)
}

func (s *CachedUserService) Register(ctx context.Context, username, password, bio string) (*AuthResult, error) {
	return s.inner.Register(ctx, username, password, bio)
}

func (s *CachedUserService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	return s.inner.Login(ctx, username, password)
}

func (s *CachedUserService) Logout(ctx context.Context, sessionID string) error {
	return s.inner.Logout(ctx, sessionID)
}

// GetUser 优先读缓存，未命中回源并回填
func (s *CachedUserService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	var cached model.User
	if err := s.cache.Get(ctx, userCacheKey(id), &cached); err == nil {
		return &cached, nil
	}

	user, err := s.inner.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	// 缓存失败只记日志，不影响主流程
	if err := s.cache.Set(ctx, userCacheKey(id), user, userCacheTTL); err != nil && logger.Log != nil {
		logger.Log.Warn("failed to cache user", zap.Uint("user_id", id), zap.Error(err))
	}
	return user, nil
}

// UpdateProfile 更新后失效缓存
func (s *CachedUserService) UpdateProfile(ctx context.Context, id uint, input UpdateProfileInput) (*model.User, error) {
	user, err := s.inner.UpdateProfile(ctx, id, input)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Delete(ctx, userCacheKey(id)); err != nil && logger.Log != nil {
		logger.Log.Warn("failed to invalidate user cache", zap.Uint("user_id", id), zap.Error(err))
	}
	return user, nil
}

func (s *CachedUserService) GetUsers(ctx context.Context, page, limit int) ([]model.User, int64, error) {
	return s.inner.GetUsers(ctx, page, limit)
}
