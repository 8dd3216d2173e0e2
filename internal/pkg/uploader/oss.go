package uploader

import (
	"bytes"
	"fmt"
	"mime/multipart"

	"cube_market/internal/pkg/config"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
)

// AliyunOSSUploader 阿里云 OSS 实现
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
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	filename := objectName(file.Filename)
	if err := u.bucket.PutObject(filename, src); err != nil {
		return "", err
	}

	return u.publicURL(filename), nil
}

func (u *AliyunOSSUploader) UploadBytes(objectKey string, data []byte) (string, error) {
	if err := u.bucket.PutObject(objectKey, bytes.NewReader(data)); err != nil {
		return "", err
	}
	return u.publicURL(objectKey), nil
}

func (u *AliyunOSSUploader) Delete(objectKey string) error {
	return u.bucket.DeleteObject(objectKey)
}

// publicURL 假设 bucket 为 public-read 或挂了 CDN，私有 bucket 需要签名 URL
func (u *AliyunOSSUploader) publicURL(objectKey string) string {
	if u.config.PublicBaseURL != "" {
		return fmt.Sprintf("%s/%s", u.config.PublicBaseURL, objectKey)
	}
	return fmt.Sprintf("https://%s.%s/%s", u.config.BucketName, u.config.Endpoint, objectKey)
}
