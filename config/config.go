package config

import "time"

type Mode string

const (
	ModeDebug   Mode = "debug"
	ModeRelease Mode = "release"
)

type Config struct {
	Host       string `envconfig:"HOST"`
	Port       string `envconfig:"PORT"`
	Domain     string `envconfig:"DOMAIN"`
	Prefix     string `envconfig:"PREFIX"`
	Storage    Storage
	Mode       Mode `envconfig:"MODE"`
	Mysql      Mysql
	Redis      Redis
	JWT        JWT
	Log        Log `mapstructure:"Log"`
	S3         S3
	Sentry     Sentry
	OTel       OTel
	Attendance Attendance
	Camera     Camera
	Admin      Admin
}

// Storage 本地存储，未配置 S3 时考勤照片落盘到这里
type Storage struct {
	Home    string `mapstructure:"home"`
	BaseURL string `envconfig:"BASE_URL" mapstructure:"base_url"`
}

type S3 struct {
	Endpoint        string `envconfig:"ENDPOINT" mapstructure:"endpoint"`
	BaseURL         string `envconfig:"BASE_URL" mapstructure:"base_url"`
	Bucket          string `envconfig:"BUCKET" mapstructure:"bucket"`
	Region          string `envconfig:"REGION" mapstructure:"region"`
	AccessKey       string `envconfig:"ACCESS_KEY" mapstructure:"access_key"`
	SecretAccessKey string `envconfig:"SECRET_KEY" mapstructure:"secret_key"`
	Prefix          string `envconfig:"PREFIX" mapstructure:"prefix"`
	UsePathStyle    bool   `envconfig:"PATH_STYLE" mapstructure:"path_style"`
	Private         bool   `envconfig:"PRIVATE" mapstructure:"private"` // 私有桶，管理端查看照片时使用预签名链接
}

type Mysql struct {
	Host     string `envconfig:"HOST"`
	Port     string `envconfig:"PORT"`
	Username string `envconfig:"USER_NAME"`
	Password string `envconfig:"PASSWORD"`
	DBName   string `envconfig:"DB_NAME" mapstructure:"db_name"`
}

type Redis struct {
	Host     string `envconfig:"HOST" mapstructure:"host"`
	Port     string `envconfig:"PORT" mapstructure:"port"`
	Password string `envconfig:"PASSWORD" mapstructure:"password"`
	DB       int    `envconfig:"DB" mapstructure:"db"`
}

type JWT struct {
	AccessSecret string `envconfig:"ACCESS_SECRET" mapstructure:"access_secret"`
	AccessExpire int64  `envconfig:"ACCESS_EXPIRE" mapstructure:"access_expire"` // 秒
}

type Log struct {
	FilePath   string `envconfig:"LOG_FILE_PATH" mapstructure:"file_path"`     // 日志文件路径
	Level      string `envconfig:"LOG_LEVEL" mapstructure:"level"`             // 日志级别：debug, info, warn, error
	MaxSize    int    `envconfig:"LOG_MAX_SIZE" mapstructure:"max_size"`       // 日志文件最大大小（MB）
	MaxBackups int    `envconfig:"LOG_MAX_BACKUPS" mapstructure:"max_backups"` // 保留的旧日志文件数
	MaxAge     int    `envconfig:"LOG_MAX_AGE" mapstructure:"max_age"`         // 日志文件保留天数
	Compress   bool   `envconfig:"LOG_COMPRESS" mapstructure:"compress"`       // 是否压缩旧日志文件
}

type Sentry struct {
	Dsn         string        `envconfig:"DSN" mapstructure:"dsn"`
	Environment string        `envconfig:"ENVIRONMENT" mapstructure:"environment"`
	SampleRate  float64       `envconfig:"SAMPLE_RATE" mapstructure:"sample_rate"`
	Tracing     SentryTracing `mapstructure:"tracing"`
}

type SentryTracing struct {
	DBSlowThresholdMs    int  `envconfig:"DB_SLOW_THRESHOLD_MS" mapstructure:"db_slow_threshold_ms"`
	RedisSlowThresholdMs int  `envconfig:"REDIS_SLOW_THRESHOLD_MS" mapstructure:"redis_slow_threshold_ms"`
	TraceHTTPCalls       bool `envconfig:"TRACE_HTTP_CALLS" mapstructure:"trace_http_calls"`
}

type OTel struct {
	Enable      bool   `envconfig:"ENABLE" mapstructure:"enable"`
	ServiceName string `envconfig:"SERVICE_NAME" mapstructure:"service_name"`
	AgentHost   string `envconfig:"AGENT_HOST" mapstructure:"agent_host"`
	AgentPort   string `envconfig:"AGENT_PORT" mapstructure:"agent_port"`
}

// Attendance 考勤打卡相关参数
type Attendance struct {
	Timezone          string `envconfig:"TIMEZONE" mapstructure:"timezone"`                       // 计算“今天”使用的时区
	Status            string `envconfig:"STATUS" mapstructure:"status"`                           // 签到写入的状态
	UploadAttempts    int    `envconfig:"UPLOAD_ATTEMPTS" mapstructure:"upload_attempts"`         // 照片上传最多尝试次数
	UploadDelayMs     int    `envconfig:"UPLOAD_DELAY_MS" mapstructure:"upload_delay_ms"`         // 两次尝试之间的等待
	UploadBackoff     string `envconfig:"UPLOAD_BACKOFF" mapstructure:"upload_backoff"`           // fixed | exponential
	LockTTLSeconds    int    `envconfig:"LOCK_TTL_SECONDS" mapstructure:"lock_ttl_seconds"`       // 同一员工同一天写入锁
	SessionTTLMinutes int    `envconfig:"SESSION_TTL_MINUTES" mapstructure:"session_ttl_minutes"` // 拍照会话空闲回收
	MaxPhotoBytes     int    `envconfig:"MAX_PHOTO_BYTES" mapstructure:"max_photo_bytes"`
}

// Location 考勤时区，无效时退回本地时区
func (a Attendance) Location() *time.Location {
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// Camera 考勤终端摄像头
type Camera struct {
	Driver      string `envconfig:"DRIVER" mapstructure:"driver"` // snapshot | static | none
	SnapshotURL string `envconfig:"SNAPSHOT_URL" mapstructure:"snapshot_url"`
	Username    string `envconfig:"USER_NAME" mapstructure:"username"`
	Password    string `envconfig:"PASSWORD" mapstructure:"password"`
	TimeoutMs   int    `envconfig:"TIMEOUT_MS" mapstructure:"timeout_ms"`
	StaticImage string `envconfig:"STATIC_IMAGE" mapstructure:"static_image"`
}

// Admin 首次启动时创建的管理员账号，Password 为空时不创建
type Admin struct {
	Username string `envconfig:"USER_NAME" mapstructure:"username"`
	Password string `envconfig:"PASSWORD" mapstructure:"password"`
}
