package response

import (
	"errors"
	"net/http"

	"trendgram/pkg/errs"

	"github.com/gin-gonic/gin"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`    // 业务码
	Message string      `json:"message"` // 提示信息
	Data    interface{} `json:"data"`    // 数据
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: "success",
		Data:    data,
	})
}

// Error 错误响应
func Error(c *gin.Context, httpCode int, errCode int, msg string) {
	c.JSON(httpCode, Response{
		Code:    errCode,
		Message: msg,
		Data:    nil,
	})
}

// Fail 业务失败响应 (HTTP 200, 业务码非 0)
func Fail(c *gin.Context, errCode int, msg string) {
	c.JSON(http.StatusOK, Response{
		Code:    errCode,
		Message: msg,
		Data:    nil,
	})
}

// HandleError 将 service 层的领域错误映射为 HTTP 状态码 + 业务码
// 未识别的错误一律按内部错误处理，不向外透出细节
func HandleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrInvalidInput):
		Error(c, http.StatusBadRequest, ErrInvalidParam, err.Error())
	case errors.Is(err, errs.ErrNotFound):
		Error(c, http.StatusNotFound, ErrNotFoundCode, err.Error())
	case errors.Is(err, errs.ErrUnauthenticated):
		Error(c, http.StatusUnauthorized, ErrTokenInvalid, err.Error())
	case errors.Is(err, errs.ErrForbidden):
		Error(c, http.StatusForbidden, ErrNoPermission, err.Error())
	case errors.Is(err, errs.ErrDuplicateUsername):
		Error(c, http.StatusConflict, ErrUserExists, err.Error())
	case errors.Is(err, errs.ErrInvalidCredentials):
		Error(c, http.StatusUnauthorized, ErrAuthFailed, err.Error())
	case errors.Is(err, errs.ErrSelfVote):
		Error(c, http.StatusForbidden, ErrSelfVote, err.Error())
	default:
		Error(c, http.StatusInternalServerError, ErrServerInternal, "internal server error")
	}
}
