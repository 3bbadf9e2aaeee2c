package model

import (
	baseModel "trendgram/pkg/model"
)

// User 用户模型
// CreatedAt 即注册时间（joinDate），创建后不可变
type User struct {
	baseModel.BaseModel
	Username     string  `gorm:"unique;not null" json:"username"`
	PasswordHash string  `gorm:"column:password_hash" json:"-"` // 密码散列不返回给前端
	Bio          string  `json:"bio"`
	IsPrivate    bool    `gorm:"default:false" json:"isPrivate"`
	ProfilePic   *string `json:"profilePic,omitempty"`
}
