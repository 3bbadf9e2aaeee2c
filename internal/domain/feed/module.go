package feed

import (
	"trendgram/internal/domain/feed/handler"
	"trendgram/internal/domain/feed/service"
	postRepo "trendgram/internal/domain/post/repository"
	userRepo "trendgram/internal/domain/user/repository"
	"trendgram/internal/pkg/middleware"
	"trendgram/internal/pkg/registry"
)

// FeedModule feed 模块（纯读侧）
type FeedModule struct{}

func init() {
	registry.Register(&FeedModule{})
}

func (m *FeedModule) Name() string {
	return "feed"
}

func (m *FeedModule) Priority() int {
	// 读侧最后初始化
	return 30
}

func (m *FeedModule) Init(ctx *registry.ModuleContext) error {
	svc := service.NewFeedService(
		postRepo.NewPostRepository(ctx.DB),
		userRepo.NewUserRepository(ctx.DB),
	)
	h := handler.NewFeedHandler(svc)

	// 首页需要登录
	ctx.Router.GET("/feed", middleware.AuthMiddleware(ctx.Sessions), h.HomeFeed)

	// 主页和归档视图允许匿名访问，私密主页的拒绝在 service 层
	optional := middleware.OptionalAuthMiddleware(ctx.Sessions)
	ctx.Router.GET("/users/:id/posts", optional, h.ProfileFeed)
	ctx.Router.GET("/users/:id/archive", optional, h.ArchiveFeed)

	return nil
}
