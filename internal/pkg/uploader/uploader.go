package uploader

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"time"

	"cube_market/internal/pkg/config"

	"github.com/google/uuid"
)

// Uploader 文件存储接口
type Uploader interface {
	// UploadFile 上传 multipart 文件，返回公开访问 URL
	UploadFile(file *multipart.FileHeader) (string, error)
	// UploadBytes 按指定对象路径上传原始字节 (QR 码 PNG 等)
	UploadBytes(objectKey string, data []byte) (string, error)
	// Delete 按对象路径删除 (魔方过期清扫时移除图片)
	Delete(objectKey string) error
}

// NewUploader 根据配置选择实现：配置了 OSS 用 OSS，否则本地磁盘
func NewUploader() (Uploader, error) {
	if config.GlobalConfig.OSS.Endpoint != "" {
		return NewAliyunOSSUploader()
	}
	return NewLocalUploader()
}

// objectName 生成唯一对象名: YYYYMMDD/uuid.ext
func objectName(originalName string) string {
	ext := filepath.Ext(originalName)
	return fmt.Sprintf("%s/%s%s", time.Now().Format("20060102"), uuid.New().String(), ext)
}
