package uploader

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"trendgram/internal/pkg/config"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/google/uuid"
)

// 允许上传的媒体后缀；决定落库时的 media_type
var (
	imageExts = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".gif": true}
	videoExts = map[string]bool{".mp4": true, ".mov": true, ".webm": true}
)

type Uploader interface {
	UploadFile(file *multipart.FileHeader) (string, error)
}

// MediaTypeForPath 按文件后缀判断媒体类型；不认识的后缀返回空串
func MediaTypeForPath(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case imageExts[ext]:
		return "image"
	case videoExts[ext]:
		return "video"
	default:
		return ""
	}
}

type AliyunOSSUploader struct {
	client *oss.Client
	bucket *oss.Bucket
	config config.OSSConfig
}

func NewAliyunOSSUploader() (*AliyunOSSUploader, error) {
	cfg := config.GlobalConfig.OSS
	client, err := oss.New(cfg.Endpoint, cfg.AccessKeyID, cfg.AccessKeySecret)
	if err != nil {
		return nil, err
	}

	bucket, err := client.Bucket(cfg.BucketName)
	if err != nil {
		return nil, err
	}

	return &AliyunOSSUploader{
		client: client,
		bucket: bucket,
		config: cfg,
	}, nil
}

func (u *AliyunOSSUploader) UploadFile(file *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if MediaTypeForPath(file.Filename) == "" {
		return "", fmt.Errorf("unsupported media extension: %s", ext)
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	// Generate unique filename: YYYYMMDD/uuid.ext
	filename := fmt.Sprintf("%s/%s%s", time.Now().Format("20060102"), uuid.New().String(), ext)

	if err := u.bucket.PutObject(filename, src); err != nil {
		return "", err
	}

	// 桶按 public-read 配置，直接拼公开 URL 作为帖子的 media_ref
	url := fmt.Sprintf("https://%s.%s/%s", u.config.BucketName, u.config.Endpoint, filename)
	return url, nil
}

// GlobalUploader instance
var GlobalUploader Uploader

func InitUploader() error {
	uploader, err := NewAliyunOSSUploader()
	if err != nil {
		return err
	}
	GlobalUploader = uploader
	return nil
}
