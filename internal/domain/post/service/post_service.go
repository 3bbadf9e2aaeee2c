package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"trendgram/internal/domain/post/model"
	"trendgram/internal/domain/post/repository"
	"trendgram/pkg/errs"

	"gorm.io/gorm"
)

// ViewRecorder 浏览计数入口（内容服务只负责校验存在性再入队）
type ViewRecorder interface {
	Record(postID uint)
}

// PostService 内容服务接口
type PostService interface {
	CreatePost(ctx context.Context, userID uint, mediaRef, caption, mediaType string) (*model.Post, error)
	GetPost(ctx context.Context, postID uint) (*model.Post, error)
	AddComment(ctx context.Context, postID, userID uint, text string) (*model.Comment, error)
	GetComments(ctx context.Context, postID uint, page, limit int) ([]model.Comment, int64, error)
	ToggleArchive(ctx context.Context, postID, userID uint) (*model.Post, error)
	RecordView(ctx context.Context, postID uint) error
}

// postService 实现
type postService struct {
	repo  repository.PostRepository
	views ViewRecorder
}

// NewPostService 创建内容服务
func NewPostService(repo repository.PostRepository, views ViewRecorder) PostService {
	return &postService{repo: repo, views: views}
}

// CreatePost 发帖（唯一的创建路径，没有草稿态）
func (s *postService) CreatePost(ctx context.Context, userID uint, mediaRef, caption, mediaType string) (*model.Post, error) {
	if userID == 0 {
		return nil, errs.ErrUnauthenticated
	}
	if strings.TrimSpace(mediaRef) == "" {
		return nil, fmt.Errorf("%w: mediaRef is required", errs.ErrInvalidInput)
	}
	if mediaType != model.MediaTypeImage && mediaType != model.MediaTypeVideo {
		return nil, fmt.Errorf("%w: mediaType must be image or video", errs.ErrInvalidInput)
	}

	post := &model.Post{
		UserID:    userID,
		MediaRef:  mediaRef,
		Caption:   caption,
		MediaType: mediaType,
		// trend_level=0, views=0, is_archived=false 为新帖默认值
	}

	if err := s.repo.CreatePost(post); err != nil {
		return nil, err
	}
	return post, nil
}

// GetPost 获取帖子详情（含评论与投票记录）
func (s *postService) GetPost(ctx context.Context, postID uint) (*model.Post, error) {
	post, err := s.repo.GetPostByID(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: post %d", errs.ErrNotFound, postID)
		}
		return nil, err
	}
	return post, nil
}

// AddComment 追加评论；不影响 trend_level
func (s *postService) AddComment(ctx context.Context, postID, userID uint, text string) (*model.Comment, error) {
	if userID == 0 {
		return nil, errs.ErrUnauthenticated
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: comment text is required", errs.ErrInvalidInput)
	}

	exists, err := s.repo.PostExists(postID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: post %d", errs.ErrNotFound, postID)
	}

	comment := &model.Comment{
		PostID:  postID,
		UserID:  userID,
		Content: text,
	}
	if err := s.repo.CreateComment(comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// GetComments 分页获取评论（插入顺序）
func (s *postService) GetComments(ctx context.Context, postID uint, page, limit int) ([]model.Comment, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.repo.GetCommentsByPostID(postID, (page-1)*limit, limit)
}

// ToggleArchive 翻转归档标记；只有作者本人可以操作自己的帖子
// 校验全部通过后才进入带行锁的翻转事务（失败不留半更新状态）
func (s *postService) ToggleArchive(ctx context.Context, postID, userID uint) (*model.Post, error) {
	if userID == 0 {
		return nil, errs.ErrUnauthenticated
	}

	post, err := s.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.UserID != userID {
		return nil, fmt.Errorf("%w: only the owner may archive this post", errs.ErrForbidden)
	}

	toggled, err := s.repo.ToggleArchive(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: post %d", errs.ErrNotFound, postID)
		}
		return nil, err
	}
	return toggled, nil
}

// RecordView 记录一次浏览
// 不要求登录；校验帖子存在后交给批处理池异步落库
func (s *postService) RecordView(ctx context.Context, postID uint) error {
	exists, err := s.repo.PostExists(postID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: post %d", errs.ErrNotFound, postID)
	}

	s.views.Record(postID)
	return nil
}
