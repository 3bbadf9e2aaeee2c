package trend

import (
	postRepo "trendgram/internal/domain/post/repository"
	"trendgram/internal/domain/trend/handler"
	"trendgram/internal/domain/trend/service"
	"trendgram/internal/pkg/middleware"
	"trendgram/internal/pkg/registry"
)

// TrendModule 趋势模块
type TrendModule struct{}

func init() {
	registry.Register(&TrendModule{})
}

func (m *TrendModule) Name() string {
	return "trend"
}

func (m *TrendModule) Priority() int {
	// 在内容模块之后初始化
	return 20
}

func (m *TrendModule) Init(ctx *registry.ModuleContext) error {
	svc := service.NewTrendService(postRepo.NewPostRepository(ctx.DB))
	h := handler.NewTrendHandler(svc)

	// 投票必须登录
	ctx.Router.POST("/posts/:id/trend", middleware.AuthMiddleware(ctx.Sessions), h.AddTrend)

	return nil
}
