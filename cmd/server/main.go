package main

import (
	"log"

	"trendgram/internal/pkg/config"
	"trendgram/internal/pkg/middleware"
	"trendgram/internal/pkg/registry"
	"trendgram/internal/pkg/session"
	"trendgram/internal/pkg/uploader"
	"trendgram/pkg/cache"
	"trendgram/pkg/database"
	"trendgram/pkg/logger"

	_ "trendgram/docs"

	// 领域模块通过 init() 自注册
	_ "trendgram/internal/domain/common"
	_ "trendgram/internal/domain/feed"
	_ "trendgram/internal/domain/post"
	_ "trendgram/internal/domain/trend"
	_ "trendgram/internal/domain/user"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// @title trendgram API
// @version 1.0
// @description 帖子、评论、趋势投票和 feed 的核心服务
// @BasePath /
func main() {
	config.LoadConfig()
	logger.InitLogger(config.GlobalConfig.App.Debug)
	defer logger.Sync()

	db := database.InitDatabase()
	rdb := database.InitRedis()

	// OSS 上传器可选：没配就禁用上传接口，不影响其他功能
	if err := uploader.InitUploader(); err != nil {
		logger.Log.Warn("OSS uploader disabled", zap.Error(err))
	}

	gin.SetMode(config.GlobalConfig.Server.Mode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())
	r.Use(middleware.RateLimitMiddleware())
	r.Use(cors.Default())

	// 运维端点
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// 初始化所有领域模块
	moduleCtx := &registry.ModuleContext{
		DB:       db,
		Redis:    rdb,
		Router:   r,
		Sessions: session.NewStore(rdb),
		Cache:    cache.NewRedisCache(rdb),
	}
	if err := registry.InitModules(moduleCtx); err != nil {
		log.Fatalf("Failed to initialize modules: %v", err)
	}

	addr := ":" + config.GlobalConfig.Server.Port
	logger.Log.Info("Server starting", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		log.Fatalf("Server exited: %v", err)
	}
}
