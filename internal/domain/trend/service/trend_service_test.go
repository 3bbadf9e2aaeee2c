package service

import (
	"context"
	"testing"

	"trendgram/internal/domain/post/model"
	"trendgram/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockPostRepository is a mock of repository.PostRepository
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) CreatePost(post *model.Post) error {
	args := m.Called(post)
	return args.Error(0)
}

func (m *MockPostRepository) GetPostByID(id uint) (*model.Post, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *MockPostRepository) PostExists(id uint) (bool, error) {
	args := m.Called(id)
	return args.Bool(0), args.Error(1)
}

func (m *MockPostRepository) CreateComment(comment *model.Comment) error {
	args := m.Called(comment)
	return args.Error(0)
}

func (m *MockPostRepository) GetCommentsByPostID(postID uint, offset, limit int) ([]model.Comment, int64, error) {
	args := m.Called(postID, offset, limit)
	return args.Get(0).([]model.Comment), args.Get(1).(int64), args.Error(2)
}

func (m *MockPostRepository) ToggleArchive(postID uint) (*model.Post, error) {
	args := m.Called(postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *MockPostRepository) CastTrend(postID, voterID uint, isUptrend bool) (*model.Post, error) {
	args := m.Called(postID, voterID, isUptrend)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *MockPostRepository) IncrementViews(postID uint, n int64) error {
	args := m.Called(postID, n)
	return args.Error(0)
}

func (m *MockPostRepository) GetHomeFeed(offset, limit int) ([]model.Post, int64, error) {
	args := m.Called(offset, limit)
	return args.Get(0).([]model.Post), args.Get(1).(int64), args.Error(2)
}

func (m *MockPostRepository) GetUserFeed(userID uint, archived bool, offset, limit int) ([]model.Post, int64, error) {
	args := m.Called(userID, archived, offset, limit)
	return args.Get(0).([]model.Post), args.Get(1).(int64), args.Error(2)
}

func postOwnedBy(postID, ownerID uint, level int) *model.Post {
	p := &model.Post{UserID: ownerID, MediaRef: "https://cdn.example.com/a.jpg", MediaType: model.MediaTypeImage, TrendLevel: level}
	p.ID = postID
	return p
}

func TestAddTrend(t *testing.T) {
	ctx := context.Background()

	t.Run("Upvote bumps trend level", func(t *testing.T) {
		mockRepo := new(MockPostRepository)
		svc := NewTrendService(mockRepo)

		mockRepo.On("GetPostByID", uint(1)).Return(postOwnedBy(1, 1, 0), nil)
		mockRepo.On("CastTrend", uint(1), uint(2), true).Return(postOwnedBy(1, 1, 1), nil)

		post, err := svc.AddTrend(ctx, 1, 2, true)

		assert.NoError(t, err)
		assert.Equal(t, 1, post.TrendLevel)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Downvote lowers trend level", func(t *testing.T) {
		mockRepo := new(MockPostRepository)
		svc := NewTrendService(mockRepo)

		mockRepo.On("GetPostByID", uint(1)).Return(postOwnedBy(1, 1, 0), nil)
		mockRepo.On("CastTrend", uint(1), uint(2), false).Return(postOwnedBy(1, 1, -1), nil)

		post, err := svc.AddTrend(ctx, 1, 2, false)

		assert.NoError(t, err)
		assert.Equal(t, -1, post.TrendLevel)
	})

	t.Run("Revote swings by two", func(t *testing.T) {
		// 同一投票人从上踩换成下踩：旧票被替换而不是叠加
		mockRepo := new(MockPostRepository)
		svc := NewTrendService(mockRepo)

		mockRepo.On("GetPostByID", uint(1)).Return(postOwnedBy(1, 1, 1), nil)
		mockRepo.On("CastTrend", uint(1), uint(2), false).Return(postOwnedBy(1, 1, -1), nil)

		post, err := svc.AddTrend(ctx, 1, 2, false)

		assert.NoError(t, err)
		assert.Equal(t, -1, post.TrendLevel)
	})

	t.Run("Author cannot vote on own post", func(t *testing.T) {
		mockRepo := new(MockPostRepository)
		svc := NewTrendService(mockRepo)

		mockRepo.On("GetPostByID", uint(1)).Return(postOwnedBy(1, 7, 0), nil)

		_, err := svc.AddTrend(ctx, 1, 7, true)

		assert.ErrorIs(t, err, errs.ErrSelfVote)
		mockRepo.AssertNotCalled(t, "CastTrend", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		mockRepo := new(MockPostRepository)
		svc := NewTrendService(mockRepo)

		_, err := svc.AddTrend(ctx, 1, 0, true)

		assert.ErrorIs(t, err, errs.ErrUnauthenticated)
		mockRepo.AssertNotCalled(t, "GetPostByID", mock.Anything)
	})

	t.Run("Post not found", func(t *testing.T) {
		mockRepo := new(MockPostRepository)
		svc := NewTrendService(mockRepo)

		mockRepo.On("GetPostByID", uint(9)).Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.AddTrend(ctx, 9, 2, true)

		assert.ErrorIs(t, err, errs.ErrNotFound)
	})
}
