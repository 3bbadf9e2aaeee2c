package model

import (
	baseModel "trendgram/pkg/model"
)

// 媒体类型
const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

// Post 帖子模型
// TrendLevel 是派生列：始终等于 trends 中 上踩差值，由投票事务内重算，
// 任何代码不得直接写它
type Post struct {
	baseModel.BaseModel
	UserID     uint   `gorm:"not null;index" json:"userId"`
	MediaRef   string `gorm:"column:media_ref;not null" json:"mediaRef"` // 媒体的外部引用（OSS URL），不可变
	Caption    string `json:"caption"`
	MediaType  string `gorm:"not null" json:"mediaType"` // image, video
	IsArchived bool   `gorm:"default:false" json:"isArchived"`
	TrendLevel int    `gorm:"default:0" json:"trendLevel"`
	Views      int64  `gorm:"default:0" json:"views"` // 只增不减

	// 关联
	Comments []Comment `json:"comments,omitempty"`
	Trends   []Trend   `json:"trends,omitempty"`
}

// Comment 评论模型，创建后不可变
type Comment struct {
	baseModel.BaseModel
	PostID  uint   `gorm:"not null;index" json:"postId"`
	UserID  uint   `gorm:"not null" json:"userId"`
	Content string `gorm:"not null" json:"content"`
}

// Trend 投票事件
// (post_id, user_id) 唯一：每个用户对一个帖子只保留一条有效投票，
// 重复投票替换方向而不是追加
type Trend struct {
	baseModel.BaseModel
	PostID    uint `gorm:"not null;uniqueIndex:idx_trends_post_user" json:"postId"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_trends_post_user" json:"userId"`
	IsUptrend bool `gorm:"not null" json:"isUptrend"`
}
