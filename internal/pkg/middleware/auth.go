package middleware

import (
	"net/http"
	"strings"

	"trendgram/internal/pkg/session"
	"trendgram/pkg/response"
	"trendgram/pkg/utils"

	"github.com/gin-gonic/gin"
)

const (
	// CtxUserID gin context 中当前用户ID的键
	CtxUserID = "userID"
	// CtxSessionID gin context 中当前会话ID的键
	CtxSessionID = "sessionID"
)

// AuthMiddleware JWT认证中间件
// token 必须通过签名校验，且对应的 Redis 会话仍然存在（未被注销）
func AuthMiddleware(sessions session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Error(c, http.StatusUnauthorized, response.ErrTokenInvalid, "Authorization header is required")
			c.Abort()
			return
		}

		// 检查格式 "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Error(c, http.StatusUnauthorized, response.ErrTokenInvalid, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := utils.ParseToken(parts[1])
		if err != nil {
			response.Error(c, http.StatusUnauthorized, response.ErrTokenInvalid, "Invalid or expired token")
			c.Abort()
			return
		}

		alive, err := sessions.Exists(c.Request.Context(), claims.SessionID)
		if err != nil || !alive {
			response.Error(c, http.StatusUnauthorized, response.ErrTokenInvalid, "Session has been revoked")
			c.Abort()
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxSessionID, claims.SessionID)

		c.Next()
	}
}

// CurrentUserID 从 context 取当前用户ID；未认证时返回 0
func CurrentUserID(c *gin.Context) uint {
	v, exists := c.Get(CtxUserID)
	if !exists {
		return 0
	}
	id, _ := v.(uint)
	return id
}

// CurrentSessionID 从 context 取当前会话ID
func CurrentSessionID(c *gin.Context) string {
	v, exists := c.Get(CtxSessionID)
	if !exists {
		return ""
	}
	sid, _ := v.(string)
	return sid
}
