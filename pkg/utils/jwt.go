package utils

import (
	"time"

	"trendgram/internal/pkg/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims 自定义JWT Claims
// SessionID 对应 Redis 中的会话键，注销时以它为准吊销令牌
type Claims struct {
	UserID    uint   `json:"user_id"`
	SessionID string `json:"session_id"`
	jwt.RegisteredClaims
}

// GenerateToken 生成JWT Token，返回 token、会话ID 和过期时间
func GenerateToken(userID uint) (string, string, time.Time, error) {
	now := time.Now()
	expireTime := now.Add(time.Duration(config.GlobalConfig.JWT.Expire) * time.Hour)
	sessionID := uuid.New().String()

	claims := Claims{
		UserID:    userID,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expireTime),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "trendgram",
		},
	}

	tokenClaims := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token, err := tokenClaims.SignedString([]byte(config.GlobalConfig.JWT.Secret))
	if err != nil {
		return "", "", time.Time{}, err
	}
	return token, sessionID, expireTime, nil
}

// ParseToken 验证JWT Token
func ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(config.GlobalConfig.JWT.Secret), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrTokenInvalidClaims
}
