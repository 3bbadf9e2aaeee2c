package post

import (
	"trendgram/internal/domain/post/handler"
	"trendgram/internal/domain/post/repository"
	"trendgram/internal/domain/post/service"
	"trendgram/internal/pkg/middleware"
	"trendgram/internal/pkg/registry"
	"trendgram/internal/pkg/worker"
)

// PostModule 内容模块
type PostModule struct{}

func init() {
	registry.Register(&PostModule{})
}

func (m *PostModule) Name() string {
	return "post"
}

func (m *PostModule) Priority() int {
	return 10
}

func (m *PostModule) Init(ctx *registry.ModuleContext) error {
	// 1. 依赖注入
	repo := repository.NewPostRepository(ctx.DB)

	// 浏览计数批处理池（3 个 worker，缓冲 4096）
	views := worker.NewViewRecorder(repo, 3, 4096)
	views.Start()

	svc := service.NewPostService(repo, views)
	h := handler.NewPostHandler(svc)

	// 2. 路由注册
	setupRoutes(ctx, h)

	return nil
}

func setupRoutes(ctx *registry.ModuleContext, h *handler.PostHandler) {
	g := ctx.Router.Group("/posts")

	// 公开读路径；浏览上报也不要求登录
	g.GET("/:id", h.GetPost)
	g.GET("/:id/comments", h.GetComments)
	g.POST("/:id/view", h.RecordView)

	// 写路径需要登录
	auth := g.Group("")
	auth.Use(middleware.AuthMiddleware(ctx.Sessions))
	{
		auth.POST("", h.CreatePost)
		auth.POST("/:id/comments", h.AddComment)
		auth.POST("/:id/archive", h.ToggleArchive)
	}
}
