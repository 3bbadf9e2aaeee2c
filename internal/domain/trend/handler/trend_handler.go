package handler

import (
	"net/http"
	"strconv"

	"trendgram/internal/domain/trend/service"
	"trendgram/internal/pkg/middleware"
	"trendgram/pkg/response"

	"github.com/gin-gonic/gin"
)

type TrendHandler struct {
	service service.TrendService
}

func NewTrendHandler(s service.TrendService) *TrendHandler {
	return &TrendHandler{service: s}
}

// TrendInput 投票输入
type TrendInput struct {
	IsUptrend *bool `json:"isUptrend" binding:"required"`
}

// AddTrend 投票
// @Summary 对帖子投票（up/down，一人一票，重复投票替换方向）
// @Tags Trend
// @Accept json
// @Produce json
// @Param id path int true "帖子ID"
// @Param input body TrendInput true "方向"
// @Success 200 {object} response.Response{data=model.Post}
// @Router /posts/{id}/trend [post]
func (h *TrendHandler) AddTrend(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "invalid post id")
		return
	}

	var input TrendInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	voterID := middleware.CurrentUserID(c)
	post, err := h.service.AddTrend(c.Request.Context(), uint(id), voterID, *input.IsUptrend)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, post)
}
