package model

import (
	"time"
)

// BaseModel 基础模型，替代 gorm.Model
// 主键为自增数字ID；本服务不做软删除，所以没有 DeletedAt
type BaseModel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
