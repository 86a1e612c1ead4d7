package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.Equal(t, ModeDebug, c.Mode)
	require.Equal(t, 3, c.Attendance.UploadAttempts)
	require.Equal(t, 1000, c.Attendance.UploadDelayMs)
	require.Equal(t, "present", c.Attendance.Status)
}

func TestLoad_FileThenEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
port: "9090"
mode: release
s3:
  bucket: photos
  prefix: attendance
attendance:
  upload_attempts: 5
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	t.Setenv("APP_PORT", "7070")
	t.Setenv("APP_ATTENDANCE_UPLOAD_DELAY_MS", "0")

	c, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ModeRelease, c.Mode)
	require.Equal(t, "7070", c.Port)
	require.Equal(t, "photos", c.S3.Bucket)
	require.Equal(t, 5, c.Attendance.UploadAttempts)
	require.Equal(t, 0, c.Attendance.UploadDelayMs)
}

func TestLoad_RejectsUnknownMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mode: staging\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}
