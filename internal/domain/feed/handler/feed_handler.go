package handler

import (
	"net/http"
	"strconv"

	"trendgram/internal/domain/feed/service"
	"trendgram/internal/pkg/middleware"
	"trendgram/pkg/response"
	"trendgram/pkg/utils"

	"github.com/gin-gonic/gin"
)

type FeedHandler struct {
	service service.FeedService
}

func NewFeedHandler(s service.FeedService) *FeedHandler {
	return &FeedHandler{service: s}
}

func userParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "invalid user id")
		return 0, false
	}
	return uint(id), true
}

// HomeFeed 首页 feed
// @Summary 首页（未归档帖子，按 trendLevel 排序）
// @Tags Feed
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Success 200 {object} utils.PageResult
// @Router /feed [get]
func (h *FeedHandler) HomeFeed(c *gin.Context) {
	var p utils.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	viewerID := middleware.CurrentUserID(c)
	posts, total, err := h.service.HomeFeed(c.Request.Context(), viewerID, p.Page, p.Limit)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, utils.PageResult{List: posts, Total: total, Page: p.Page, Limit: p.Limit})
}

// ArchiveFeed 归档视图
// @Summary 用户的归档帖子（私密主页仅本人）
// @Tags Feed
// @Param id path int true "用户ID"
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Success 200 {object} utils.PageResult
// @Router /users/{id}/archive [get]
func (h *FeedHandler) ArchiveFeed(c *gin.Context) {
	ownerID, ok := userParam(c)
	if !ok {
		return
	}

	var p utils.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	viewerID := middleware.CurrentUserID(c)
	posts, total, err := h.service.ArchiveFeed(c.Request.Context(), ownerID, viewerID, p.Page, p.Limit)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, utils.PageResult{List: posts, Total: total, Page: p.Page, Limit: p.Limit})
}

// ProfileFeed 个人主页
// @Summary 用户的公开帖子（私密主页仅本人）
// @Tags Feed
// @Param id path int true "用户ID"
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Success 200 {object} utils.PageResult
// @Router /users/{id}/posts [get]
func (h *FeedHandler) ProfileFeed(c *gin.Context) {
	targetID, ok := userParam(c)
	if !ok {
		return
	}

	var p utils.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	viewerID := middleware.CurrentUserID(c)
	posts, total, err := h.service.ProfileFeed(c.Request.Context(), targetID, viewerID, p.Page, p.Limit)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, utils.PageResult{List: posts, Total: total, Page: p.Page, Limit: p.Limit})
}
