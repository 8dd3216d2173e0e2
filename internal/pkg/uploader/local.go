package uploader

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"cube_market/internal/pkg/config"
)

// LocalUploader 本地磁盘实现，开发环境使用
type LocalUploader struct {
	dir     string
	baseURL string
}

func NewLocalUploader() (*LocalUploader, error) {
	cfg := config.GlobalConfig.Upload
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, err
	}
	return &LocalUploader{
		dir:     cfg.Dir,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}, nil
}

func (u *LocalUploader) UploadFile(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return "", err
	}

	return u.UploadBytes(objectName(file.Filename), data)
}

func (u *LocalUploader) UploadBytes(objectKey string, data []byte) (string, error) {
	path := filepath.Join(u.dir, filepath.FromSlash(objectKey))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s", u.baseURL, objectKey), nil
}

func (u *LocalUploader) Delete(objectKey string) error {
	err := os.Remove(filepath.Join(u.dir, filepath.FromSlash(objectKey)))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
