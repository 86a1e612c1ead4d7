package pictureBed

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"attendance-system/internal/store"

	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/require"
)

func TestLocalUpload(t *testing.T) {
	dir := t.TempDir()
	pb := NewPictureBed(dir, "/static/")

	require.NoError(t, pb.UploadObject(context.Background(), "attendance/e1_1.png", "image/png", []byte("png")))

	data, err := os.ReadFile(filepath.Join(dir, "attendance", "e1_1.png"))
	require.NoError(t, err)
	require.Equal(t, "png", string(data))
	require.Equal(t, "/static/attendance/e1_1.png", pb.PublicURL("attendance/e1_1.png"))
}

func TestLocalUpload_KeyCannotEscapeDir(t *testing.T) {
	dir := t.TempDir()
	pb := NewPictureBed(filepath.Join(dir, "photos"), "/static")

	require.NoError(t, pb.UploadObject(context.Background(), "../../evil.png", "image/png", []byte("x")))
	_, err := os.Stat(filepath.Join(dir, "photos", "evil.png"))
	require.NoError(t, err)
}

func TestPublicURLAndKey(t *testing.T) {
	pb := &PictureBed{Bucket: "photos", Endpoint: "https://s3.example.com/", Prefix: "/prod/", UsePathStyle: true}
	url := pb.PublicURL("attendance/a.png")
	require.Equal(t, "https://s3.example.com/photos/prod/attendance/a.png", url)

	key, ok := pb.KeyFromURL(url)
	require.True(t, ok)
	require.Equal(t, "prod/attendance/a.png", key)

	_, ok = pb.KeyFromURL("https://elsewhere/a.png")
	require.False(t, ok)

	pb.UsePathStyle = false
	pb.S3BaseURL = "https://cdn.example.com"
	require.Equal(t, "https://cdn.example.com/prod/attendance/a.png", pb.PublicURL("attendance/a.png"))
}

func TestClassifyS3(t *testing.T) {
	denied := classifyS3(&smithy.GenericAPIError{Code: "AccessDenied", Message: "denied"})
	require.ErrorIs(t, denied, store.ErrPermissionDenied)

	other := classifyS3(&smithy.GenericAPIError{Code: "SlowDown"})
	require.False(t, errors.Is(other, store.ErrPermissionDenied))
}

func TestPresignedPhotoURL_PublicBucketUnchanged(t *testing.T) {
	pb := &PictureBed{Bucket: "photos", Endpoint: "https://s3.example.com"}
	require.Equal(t, "https://s3.example.com/a.png", pb.PresignedPhotoURL(context.Background(), "https://s3.example.com/a.png"))
}
