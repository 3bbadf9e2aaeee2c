package service

import (
	"context"
	"errors"
	"fmt"

	"trendgram/internal/domain/post/model"
	"trendgram/internal/domain/post/repository"
	"trendgram/pkg/errs"
	"trendgram/pkg/metrics"

	"gorm.io/gorm"
)

// TrendService 趋势引擎
// 把帖子上的投票事件流折叠成单一 trendLevel 分值：
// trendLevel = 上踩数 - 下踩数，一人一票，重复投票替换方向。
// 分值重算和投票写入在同一个行锁事务里完成（见 post 仓库 CastTrend），
// 并发投票也不会撕裂
type TrendService interface {
	AddTrend(ctx context.Context, postID, voterID uint, isUptrend bool) (*model.Post, error)
}

type trendService struct {
	posts repository.PostRepository
}

// NewTrendService 创建趋势引擎；依赖内容仓库（投票挂在帖子上）
func NewTrendService(posts repository.PostRepository) TrendService {
	return &trendService{posts: posts}
}

// AddTrend 投票
// 作者不能给自己的帖子投票；校验全部通过后才进入写事务，
// 失败时 trends 不会有半追加
func (s *trendService) AddTrend(ctx context.Context, postID, voterID uint, isUptrend bool) (*model.Post, error) {
	if voterID == 0 {
		return nil, errs.ErrUnauthenticated
	}

	post, err := s.posts.GetPostByID(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: post %d", errs.ErrNotFound, postID)
		}
		return nil, err
	}

	// 作者ID不可变，锁外校验即可
	if post.UserID == voterID {
		return nil, errs.ErrSelfVote
	}

	updated, err := s.posts.CastTrend(postID, voterID, isUptrend)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: post %d", errs.ErrNotFound, postID)
		}
		return nil, err
	}

	metrics.GetGlobalCollector().RecordTrendVote(isUptrend)
	return updated, nil
}
