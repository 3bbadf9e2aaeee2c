package common

import (
	commonHandler "trendgram/internal/pkg/common"
	"trendgram/internal/pkg/middleware"
	"trendgram/internal/pkg/registry"
)

// CommonModule 通用功能模块
type CommonModule struct{}

func init() {
	registry.Register(&CommonModule{})
}

func (m *CommonModule) Name() string {
	return "common"
}

func (m *CommonModule) Priority() int {
	return 100 // 最后初始化
}

func (m *CommonModule) Init(ctx *registry.ModuleContext) error {
	setupRoutes(ctx)
	return nil
}

func setupRoutes(ctx *registry.ModuleContext) {
	// 媒体上传接口，返回的 URL 作为发帖时的 media_ref
	ctx.Router.POST("/upload", middleware.AuthMiddleware(ctx.Sessions), commonHandler.UploadFile)
}
