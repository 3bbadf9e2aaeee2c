package middleware

import (
	"strings"

	"trendgram/internal/pkg/session"
	"trendgram/pkg/utils"

	"github.com/gin-gonic/gin"
)

// OptionalAuthMiddleware 可选认证
// 带合法 token 则注入用户身份，不带（或 token 无效）也放行为匿名请求。
// 公开主页允许匿名浏览，私密主页的拒绝在 service 层做
func OptionalAuthMiddleware(sessions session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.Next()
			return
		}

		claims, err := utils.ParseToken(parts[1])
		if err != nil {
			c.Next()
			return
		}

		if alive, err := sessions.Exists(c.Request.Context(), claims.SessionID); err == nil && alive {
			c.Set(CtxUserID, claims.UserID)
			c.Set(CtxSessionID, claims.SessionID)
		}

		c.Next()
	}
}
