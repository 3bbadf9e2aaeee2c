package handler

import (
	"net/http"

	"trendgram/internal/pkg/uploader"
	"trendgram/pkg/response"

	"github.com/gin-gonic/gin"
)

// UploadFile 上传媒体文件
// 返回的 URL 作为 createPost 的 mediaRef 使用；本服务不存储媒体字节
// @Summary 上传媒体到 OSS
// @Tags Common
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File"
// @Success 200 {object} response.Response{data=string} "URL"
// @Router /upload [post]
func UploadFile(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "No file uploaded")
		return
	}

	if uploader.GlobalUploader == nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Uploader not initialized")
		return
	}

	url, err := uploader.GlobalUploader.UploadFile(file)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	response.Success(c, url)
}
