package repository

import (
	"trendgram/internal/domain/post/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepository 接口定义
// 同一帖子的写操作（归档翻转、投票）在事务里持有该帖子的行锁串行执行，
// 不同帖子互不阻塞
type PostRepository interface {
	CreatePost(post *model.Post) error
	GetPostByID(id uint) (*model.Post, error)
	PostExists(id uint) (bool, error)

	CreateComment(comment *model.Comment) error
	GetCommentsByPostID(postID uint, offset, limit int) ([]model.Comment, int64, error)

	ToggleArchive(postID uint) (*model.Post, error)
	CastTrend(postID, voterID uint, isUptrend bool) (*model.Post, error)
	IncrementViews(postID uint, n int64) error

	GetHomeFeed(offset, limit int) ([]model.Post, int64, error)
	GetUserFeed(userID uint, archived bool, offset, limit int) ([]model.Post, int64, error)
}

// postRepository 实现
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository 创建新的仓库实例
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// --- Post ---

func (r *postRepository) CreatePost(post *model.Post) error {
	return r.db.Create(post).Error
}

func (r *postRepository) GetPostByID(id uint) (*model.Post, error) {
	var post model.Post
	if err := r.db.
		Preload("Comments", func(db *gorm.DB) *gorm.DB { return db.Order("comments.id asc") }).
		Preload("Trends").
		Where("id = ?", id).First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) PostExists(id uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.Post{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// --- Comment ---

func (r *postRepository) CreateComment(comment *model.Comment) error {
	return r.db.Create(comment).Error
}

func (r *postRepository) GetCommentsByPostID(postID uint, offset, limit int) ([]model.Comment, int64, error) {
	var comments []model.Comment
	var total int64

	query := r.db.Model(&model.Comment{}).Where("post_id = ?", postID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// 评论按插入顺序返回
	if err := query.Order("id asc").Offset(offset).Limit(limit).Find(&comments).Error; err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

// --- 写路径（行锁事务） ---

// lockPost 在当前事务内对帖子行加排它锁
func lockPost(tx *gorm.DB, postID uint) (*model.Post, error) {
	var post model.Post
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", postID).First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// ToggleArchive 翻转归档标记
// 每次调用是一次翻转，不是设值；锁内执行，和并发读写不交错
func (r *postRepository) ToggleArchive(postID uint) (*model.Post, error) {
	var result *model.Post
	err := r.db.Transaction(func(tx *gorm.DB) error {
		post, err := lockPost(tx, postID)
		if err != nil {
			return err
		}

		if err := tx.Model(post).UpdateColumn("is_archived", !post.IsArchived).Error; err != nil {
			return err
		}

		post.IsArchived = !post.IsArchived
		result = post
		return nil
	})
	return result, err
}

// CastTrend 投票（一人一票，重复投票替换方向），并在同一事务内重算 trend_level
func (r *postRepository) CastTrend(postID, voterID uint, isUptrend bool) (*model.Post, error) {
	var result *model.Post
	err := r.db.Transaction(func(tx *gorm.DB) error {
		post, err := lockPost(tx, postID)
		if err != nil {
			return err
		}

		// 查该投票人已有的投票；有则替换方向，无则追加
		var existing model.Trend
		err = tx.Where("post_id = ? AND user_id = ?", postID, voterID).First(&existing).Error
		switch {
		case err == nil:
			if existing.IsUptrend != isUptrend {
				if err := tx.Model(&existing).UpdateColumn("is_uptrend", isUptrend).Error; err != nil {
					return err
				}
			}
		case err == gorm.ErrRecordNotFound:
			trend := model.Trend{PostID: postID, UserID: voterID, IsUptrend: isUptrend}
			if err := tx.Create(&trend).Error; err != nil {
				return err
			}
		default:
			return err
		}

		// 重算派生分值：上踩差值（纯函数，事务内一致）
		var up, down int64
		if err := tx.Model(&model.Trend{}).
			Where("post_id = ? AND is_uptrend = ?", postID, true).Count(&up).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Trend{}).
			Where("post_id = ? AND is_uptrend = ?", postID, false).Count(&down).Error; err != nil {
			return err
		}

		level := int(up - down)
		if err := tx.Model(post).UpdateColumn("trend_level", level).Error; err != nil {
			return err
		}

		post.TrendLevel = level
		result = post
		return nil
	})
	return result, err
}

// IncrementViews 批量累加浏览数（原子自增，只增不减）
func (r *postRepository) IncrementViews(postID uint, n int64) error {
	return r.db.Model(&model.Post{}).Where("id = ?", postID).
		UpdateColumn("views", gorm.Expr("views + ?", n)).Error
}

// --- Feed 查询（只读） ---

// feedOrder 主排序：trend_level 降序，时间降序，ID 升序兜底保证确定性
const feedOrder = "trend_level desc, created_at desc, id asc"

func (r *postRepository) GetHomeFeed(offset, limit int) ([]model.Post, int64, error) {
	var posts []model.Post
	var total int64

	query := r.db.Model(&model.Post{}).Where("is_archived = ?", false)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order(feedOrder).Offset(offset).Limit(limit).Find(&posts).Error; err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *postRepository) GetUserFeed(userID uint, archived bool, offset, limit int) ([]model.Post, int64, error) {
	var posts []model.Post
	var total int64

	query := r.db.Model(&model.Post{}).Where("user_id = ? AND is_archived = ?", userID, archived)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// 归档视图按时间倒序；个人主页和首页一致按分值排序
	order := feedOrder
	if archived {
		order = "created_at desc, id asc"
	}

	if err := query.Order(order).Offset(offset).Limit(limit).Find(&posts).Error; err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}
