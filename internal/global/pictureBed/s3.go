package pictureBed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"attendance-system/internal/store"
)

// permissionCodes 存储桶拒绝访问时返回的错误码
var permissionCodes = map[string]bool{
	"AccessDenied":          true,
	"AllAccessDisabled":     true,
	"InvalidAccessKeyId":    true,
	"SignatureDoesNotMatch": true,
	"ExpiredToken":          true,
	"InvalidToken":          true,
	"AccountProblem":        true,
}

// InitS3 创建 S3 客户端和分片上传器
func (pb *PictureBed) InitS3(ctx context.Context) error {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(pb.region()),
	}
	if pb.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(pb.AccessKey, pb.SecretAccessKey, "")))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return fmt.Errorf("加载 S3 配置失败: %w", err)
	}

	pb.s3Client = s3.NewFromConfig(cfg, func(o *s3.Options) {
		if pb.Endpoint != "" {
			o.BaseEndpoint = aws.String(pb.Endpoint)
		}
		o.UsePathStyle = pb.UsePathStyle
	})
	pb.uploader = manager.NewUploader(pb.s3Client)
	return nil
}

func (pb *PictureBed) region() string {
	if pb.Region == "" {
		return "us-east-1"
	}
	return pb.Region
}

func (pb *PictureBed) uploadS3(ctx context.Context, key, contentType string, data []byte) error {
	if pb.uploader == nil {
		if err := pb.InitS3(ctx); err != nil {
			return err
		}
	}
	input := &s3.PutObjectInput{
		Bucket:      aws.String(pb.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	}
	if !pb.Private {
		input.CacheControl = aws.String("public, max-age=31536000")
	}
	if _, err := pb.uploader.Upload(ctx, input); err != nil {
		return classifyS3(err)
	}
	return nil
}

// classifyS3 把鉴权类失败包装成 store.ErrPermissionDenied，其余按网络错误处理
func classifyS3(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && permissionCodes[apiErr.ErrorCode()] {
		return fmt.Errorf("%w: %v", store.ErrPermissionDenied, err)
	}
	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		switch respErr.HTTPStatusCode() {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %v", store.ErrPermissionDenied, err)
		}
	}
	return err
}
