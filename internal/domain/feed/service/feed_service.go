package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	postModel "trendgram/internal/domain/post/model"
	postRepo "trendgram/internal/domain/post/repository"
	userRepo "trendgram/internal/domain/user/repository"
	"trendgram/pkg/errs"
	"trendgram/pkg/metrics"

	"gorm.io/gorm"
)

// FeedService 只读的 feed 组装器，不做任何写入
// 三个视图共用帖子仓库的快照读：单个帖子的字段永远是一致的提交结果，
// 跨帖子不要求全局快照
type FeedService interface {
	HomeFeed(ctx context.Context, viewerID uint, page, limit int) ([]postModel.Post, int64, error)
	ArchiveFeed(ctx context.Context, ownerID, viewerID uint, page, limit int) ([]postModel.Post, int64, error)
	ProfileFeed(ctx context.Context, targetID, viewerID uint, page, limit int) ([]postModel.Post, int64, error)
}

type feedService struct {
	posts postRepo.PostRepository
	users userRepo.UserRepository
}

// NewFeedService 创建 feed 服务
func NewFeedService(posts postRepo.PostRepository, users userRepo.UserRepository) FeedService {
	return &feedService{posts: posts, users: users}
}

func normalize(page, limit int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return (page - 1) * limit, limit
}

// checkVisibility 私密主页只有本人可见；其他人一律拒绝
func (s *feedService) checkVisibility(targetID, viewerID uint) error {
	target, err := s.users.GetByID(targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: user %d", errs.ErrNotFound, targetID)
		}
		return err
	}

	if !target.IsPrivate || viewerID == target.ID {
		return nil
	}
	if viewerID == 0 {
		return errs.ErrUnauthenticated
	}
	return fmt.Errorf("%w: profile is private", errs.ErrForbidden)
}

// HomeFeed 首页：全部未归档帖子
// 排序：trend_level 降序 → created_at 降序 → id 升序（确定性兜底）
func (s *feedService) HomeFeed(ctx context.Context, viewerID uint, page, limit int) ([]postModel.Post, int64, error) {
	if viewerID == 0 {
		return nil, 0, errs.ErrUnauthenticated
	}

	start := time.Now()
	offset, limit := normalize(page, limit)
	posts, total, err := s.posts.GetHomeFeed(offset, limit)
	if err != nil {
		return nil, 0, err
	}
	metrics.GetGlobalCollector().RecordFeedQuery("home", time.Since(start))
	return posts, total, nil
}

// ArchiveFeed 归档视图：目标用户的已归档帖子，时间倒序
func (s *feedService) ArchiveFeed(ctx context.Context, ownerID, viewerID uint, page, limit int) ([]postModel.Post, int64, error) {
	if err := s.checkVisibility(ownerID, viewerID); err != nil {
		return nil, 0, err
	}

	start := time.Now()
	offset, limit := normalize(page, limit)
	posts, total, err := s.posts.GetUserFeed(ownerID, true, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	metrics.GetGlobalCollector().RecordFeedQuery("archive", time.Since(start))
	return posts, total, nil
}

// ProfileFeed 个人主页：目标用户的未归档帖子，排序和首页一致
func (s *feedService) ProfileFeed(ctx context.Context, targetID, viewerID uint, page, limit int) ([]postModel.Post, int64, error) {
	if err := s.checkVisibility(targetID, viewerID); err != nil {
		return nil, 0, err
	}

	start := time.Now()
	offset, limit := normalize(page, limit)
	posts, total, err := s.posts.GetUserFeed(targetID, false, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	metrics.GetGlobalCollector().RecordFeedQuery("profile", time.Since(start))
	return posts, total, nil
}
