package handler

import (
	"net/http"
	"strconv"

	"trendgram/internal/domain/post/service"
	"trendgram/internal/pkg/middleware"
	"trendgram/pkg/response"
	"trendgram/pkg/utils"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	service service.PostService
}

func NewPostHandler(s service.PostService) *PostHandler {
	return &PostHandler{service: s}
}

// CreatePostInput 发帖输入
type CreatePostInput struct {
	MediaRef  string `json:"mediaRef" binding:"required"`
	Caption   string `json:"caption"`
	MediaType string `json:"mediaType" binding:"required,oneof=image video"`
}

// CommentInput 评论输入
type CommentInput struct {
	Text string `json:"text" binding:"required"`
}

// postID 解析路径里的帖子ID
func postID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "invalid post id")
		return 0, false
	}
	return uint(id), true
}

// CreatePost 发帖
// @Summary 发布帖子
// @Tags Post
// @Accept json
// @Produce json
// @Param input body CreatePostInput true "帖子内容"
// @Success 200 {object} response.Response{data=model.Post}
// @Router /posts [post]
func (h *PostHandler) CreatePost(c *gin.Context) {
	var input CreatePostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	userID := middleware.CurrentUserID(c)
	post, err := h.service.CreatePost(c.Request.Context(), userID, input.MediaRef, input.Caption, input.MediaType)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, post)
}

// GetPost 帖子详情
// @Summary 获取帖子
// @Tags Post
// @Param id path int true "帖子ID"
// @Success 200 {object} response.Response{data=model.Post}
// @Router /posts/{id} [get]
func (h *PostHandler) GetPost(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}

	post, err := h.service.GetPost(c.Request.Context(), id)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, post)
}

// AddComment 评论
// @Summary 发表评论
// @Tags Post
// @Accept json
// @Produce json
// @Param id path int true "帖子ID"
// @Param input body CommentInput true "评论内容"
// @Success 200 {object} response.Response{data=model.Comment}
// @Router /posts/{id}/comments [post]
func (h *PostHandler) AddComment(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}

	var input CommentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	userID := middleware.CurrentUserID(c)
	comment, err := h.service.AddComment(c.Request.Context(), id, userID, input.Text)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, comment)
}

// GetComments 评论列表
// @Summary 获取评论（插入顺序，分页）
// @Tags Post
// @Param id path int true "帖子ID"
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Success 200 {object} utils.PageResult
// @Router /posts/{id}/comments [get]
func (h *PostHandler) GetComments(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}

	var p utils.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	comments, total, err := h.service.GetComments(c.Request.Context(), id, p.Page, p.Limit)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, utils.PageResult{List: comments, Total: total, Page: p.Page, Limit: p.Limit})
}

// ToggleArchive 归档/取消归档
// @Summary 翻转归档标记（仅作者）
// @Tags Post
// @Param id path int true "帖子ID"
// @Success 200 {object} response.Response{data=model.Post}
// @Router /posts/{id}/archive [post]
func (h *PostHandler) ToggleArchive(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}

	userID := middleware.CurrentUserID(c)
	post, err := h.service.ToggleArchive(c.Request.Context(), id, userID)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, post)
}

// RecordView 记录浏览
// @Summary 上报一次浏览（渲染侧每次展示调用一次）
// @Tags Post
// @Param id path int true "帖子ID"
// @Success 200 {object} response.Response
// @Router /posts/{id}/view [post]
func (h *PostHandler) RecordView(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}

	if err := h.service.RecordView(c.Request.Context(), id); err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, nil)
}
