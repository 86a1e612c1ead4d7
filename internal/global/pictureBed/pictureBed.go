// Package pictureBed 考勤照片存储：配置了 S3 时上传到存储桶，否则落盘到本地目录
package pictureBed

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"attendance-system/config"
	"attendance-system/internal/store"

	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type PictureBed struct {
	SaveDir string // 本地保存目录
	BaseURL string // 本地访问基础 URL

	Endpoint        string
	S3BaseURL       string
	Bucket          string
	Region          string
	AccessKey       string
	SecretAccessKey string
	Prefix          string
	UsePathStyle    bool
	Private         bool

	s3Client *s3.Client
	uploader *manager.Uploader
}

// NewPictureBed 本地存储
func NewPictureBed(saveDir, baseURL string) *PictureBed {
	return &PictureBed{SaveDir: saveDir, BaseURL: baseURL}
}

// FromConfig 按配置创建，Bucket 为空时只使用本地存储
func FromConfig(c *config.Config) *PictureBed {
	return &PictureBed{
		SaveDir:         c.Storage.Home,
		BaseURL:         c.Storage.BaseURL,
		Endpoint:        c.S3.Endpoint,
		S3BaseURL:       c.S3.BaseURL,
		Bucket:          c.S3.Bucket,
		Region:          c.S3.Region,
		AccessKey:       c.S3.AccessKey,
		SecretAccessKey: c.S3.SecretAccessKey,
		Prefix:          c.S3.Prefix,
		UsePathStyle:    c.S3.UsePathStyle,
		Private:         c.S3.Private,
	}
}

func (pb *PictureBed) UseS3() bool {
	return pb.Bucket != ""
}

// UploadObject 实现 store.ObjectStore
func (pb *PictureBed) UploadObject(ctx context.Context, key, contentType string, data []byte) error {
	if pb.UseS3() {
		return pb.uploadS3(ctx, pb.objectKey(key), contentType, data)
	}
	return pb.saveLocal(key, data)
}

// PublicURL 对象的访问地址，私有桶需要再用 PresignedPhotoURL 换成临时链接
func (pb *PictureBed) PublicURL(key string) string {
	if !pb.UseS3() {
		return strings.TrimRight(pb.BaseURL, "/") + "/" + strings.TrimLeft(key, "/")
	}
	key = pb.objectKey(key)
	base := strings.TrimRight(pb.S3BaseURL, "/")
	if base == "" {
		base = strings.TrimRight(pb.Endpoint, "/")
	}
	if pb.UsePathStyle {
		return base + "/" + pb.Bucket + "/" + key
	}
	return base + "/" + key
}

// KeyFromURL 从 PublicURL 还原对象 key，不是本存储的地址返回 false
func (pb *PictureBed) KeyFromURL(url string) (string, bool) {
	prefix := pb.PublicURL("")
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	return pb.objectKey(strings.TrimPrefix(url, prefix)), true
}

func (pb *PictureBed) objectKey(key string) string {
	key = strings.TrimLeft(key, "/")
	prefix := strings.Trim(pb.Prefix, "/")
	if prefix == "" || strings.HasPrefix(key, prefix+"/") {
		return key
	}
	return path.Join(prefix, key)
}

func (pb *PictureBed) saveLocal(key string, data []byte) error {
	clean := filepath.Clean("/" + key)
	dst := filepath.Join(pb.SaveDir, clean)
	if err := os.MkdirAll(filepath.Dir(dst), os.ModePerm); err != nil {
		return classifyLocal(err)
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return classifyLocal(err)
	}
	return nil
}

func classifyLocal(err error) error {
	if errors.Is(err, fs.ErrPermission) {
		return fmt.Errorf("%w: %v", store.ErrPermissionDenied, err)
	}
	return err
}
