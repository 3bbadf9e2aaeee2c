package user

import (
	"trendgram/internal/domain/user/handler"
	"trendgram/internal/domain/user/repository"
	"trendgram/internal/domain/user/service"
	"trendgram/internal/pkg/middleware"
	"trendgram/internal/pkg/registry"
)

// UserModule 用户模块
type UserModule struct{}

func init() {
	// 自动注册模块
	registry.Register(&UserModule{})
}

func (m *UserModule) Name() string {
	return "user"
}

func (m *UserModule) Priority() int {
	// 用户模块优先级最高，内容/feed 模块都依赖它
	return 1
}

func (m *UserModule) Init(ctx *registry.ModuleContext) error {
	// 1. 依赖注入
	userRepo := repository.NewUserRepository(ctx.DB)
	userService := service.NewCachedUserService(
		service.NewUserService(userRepo, ctx.Sessions),
		ctx.Cache,
	)
	userHandler := handler.NewUserHandler(userService)

	// 2. 路由注册
	setupRoutes(ctx, userHandler)

	return nil
}

func setupRoutes(ctx *registry.ModuleContext, h *handler.UserHandler) {
	r := ctx.Router

	// 公开路由
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
	}
	// 注销需要知道当前会话，走认证中间件
	authGroup.POST("/logout", middleware.AuthMiddleware(ctx.Sessions), h.Logout)

	// 受保护的路由
	userGroup := r.Group("/users")
	userGroup.Use(middleware.AuthMiddleware(ctx.Sessions))
	{
		userGroup.GET("", h.GetUsers)
		userGroup.GET("/:id", h.GetUser)
		userGroup.PUT("/me", h.UpdateProfile)
	}
}
