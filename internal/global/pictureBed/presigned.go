package pictureBed

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// GeneratePresignedDownloadURL 生成私有对象的临时下载链接
func (pb *PictureBed) GeneratePresignedDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, error) {
	if pb.s3Client == nil {
		if err := pb.InitS3(ctx); err != nil {
			return "", fmt.Errorf("初始化 S3 客户端失败: %w", err)
		}
	}
	if expiresIn <= 0 {
		expiresIn = time.Hour
	}

	req, err := s3.NewPresignClient(pb.s3Client).PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(pb.Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expiresIn))
	if err != nil {
		return "", fmt.Errorf("生成预签名下载 URL 失败: %w", err)
	}
	return req.URL, nil
}

// PresignedPhotoURL 管理端查看考勤照片：私有桶换成临时链接，其余原样返回
func (pb *PictureBed) PresignedPhotoURL(ctx context.Context, photoURL string) string {
	if !pb.UseS3() || !pb.Private || photoURL == "" {
		return photoURL
	}
	key, ok := pb.KeyFromURL(photoURL)
	if !ok {
		return photoURL
	}
	signed, err := pb.GeneratePresignedDownloadURL(ctx, key, 0)
	if err != nil {
		return photoURL
	}
	return signed
}
