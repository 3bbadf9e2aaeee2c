package handler

import (
	"net/http"
	"strconv"

	"trendgram/internal/domain/user/service"
	"trendgram/internal/pkg/middleware"
	"trendgram/pkg/response"
	"trendgram/pkg/utils"

	"github.com/gin-gonic/gin"
)

// UserHandler 用户处理器
type UserHandler struct {
	service service.UserService
}

// NewUserHandler 创建处理器
func NewUserHandler(service service.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// RegisterInput 注册输入
type RegisterInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Bio      string `json:"bio"`
}

// LoginInput 登录输入
type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileInput 资料更新输入
type UpdateProfileInput struct {
	Bio        *string `json:"bio"`
	ProfilePic *string `json:"profilePic"`
	IsPrivate  *bool   `json:"isPrivate"`
}

// Register 处理注册请求
// @Summary 注册并登录
// @Tags Auth
// @Accept json
// @Produce json
// @Param input body RegisterInput true "注册信息"
// @Success 200 {object} response.Response{data=service.AuthResult}
// @Router /auth/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	result, err := h.service.Register(c.Request.Context(), input.Username, input.Password, input.Bio)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, result)
}

// Login 处理登录请求
// @Summary 登录
// @Tags Auth
// @Accept json
// @Produce json
// @Param input body LoginInput true "登录信息"
// @Success 200 {object} response.Response{data=service.AuthResult}
// @Router /auth/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	result, err := h.service.Login(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, result)
}

// Logout 注销当前会话（幂等）
// @Summary 注销
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response
// @Router /auth/logout [post]
func (h *UserHandler) Logout(c *gin.Context) {
	sessionID := middleware.CurrentSessionID(c)
	if err := h.service.Logout(c.Request.Context(), sessionID); err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, nil)
}

// GetUser 获取单个用户
// @Summary 获取用户资料
// @Tags User
// @Produce json
// @Param id path int true "用户ID"
// @Success 200 {object} response.Response{data=model.User}
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "invalid user id")
		return
	}

	user, err := h.service.GetUser(c.Request.Context(), uint(id))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, user)
}

// GetUsers 获取用户列表
// @Summary 用户列表（分页）
// @Tags User
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Success 200 {object} utils.PageResult
// @Router /users [get]
func (h *UserHandler) GetUsers(c *gin.Context) {
	var p utils.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	users, total, err := h.service.GetUsers(c.Request.Context(), p.Page, p.Limit)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, utils.PageResult{List: users, Total: total, Page: p.Page, Limit: p.Limit})
}

// UpdateProfile 更新当前用户资料
// @Summary 更新资料（bio/头像/私密开关）
// @Tags User
// @Accept json
// @Produce json
// @Param input body UpdateProfileInput true "资料"
// @Success 200 {object} response.Response{data=model.User}
// @Router /users/me [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var input UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	userID := middleware.CurrentUserID(c)
	user, err := h.service.UpdateProfile(c.Request.Context(), userID, service.UpdateProfileInput{
		Bio:        input.Bio,
		ProfilePic: input.ProfilePic,
		IsPrivate:  input.IsPrivate,
	})
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, user)
}
