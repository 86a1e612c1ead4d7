package config

import (
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix 环境变量前缀，例如 APP_MYSQL_HOST
const EnvPrefix = "APP"

var (
	configPath = pflag.StringP("config", "c", "config.yaml", "配置文件路径")

	mu  sync.RWMutex
	cfg = Default()
)

// Default 返回带默认值的配置，未调用 Init 时 Get 返回它
func Default() *Config {
	return &Config{
		Host:   "0.0.0.0",
		Port:   "8080",
		Prefix: "api",
		Mode:   ModeDebug,
		Storage: Storage{
			Home:    "./upload",
			BaseURL: "/static",
		},
		Mysql: Mysql{Host: "127.0.0.1", Port: "3306", DBName: "attendance"},
		JWT:   JWT{AccessExpire: 7 * 24 * 3600},
		Log: Log{
			Level:      "info",
			MaxSize:    100,
			MaxBackups: 10,
			MaxAge:     30,
		},
		OTel: OTel{ServiceName: "attendance-system"},
		Attendance: Attendance{
			Timezone:          "Local",
			Status:            "present",
			UploadAttempts:    3,
			UploadDelayMs:     1000,
			UploadBackoff:     "fixed",
			LockTTLSeconds:    10,
			SessionTTLMinutes: 15,
			MaxPhotoBytes:     8 << 20,
		},
		Camera: Camera{Driver: "none", TimeoutMs: 5000},
		Admin:  Admin{Username: "admin"},
	}
}

// Init 读取配置文件（viper），再用环境变量覆盖（envconfig）
func Init() {
	if !pflag.Parsed() {
		pflag.Parse()
	}
	c, err := Load(*configPath)
	if err != nil {
		panic(err)
	}
	Set(c)
}

// Load 从指定路径加载配置，文件不存在时只使用默认值和环境变量
func Load(path string) (*Config, error) {
	c := Default()

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	} else if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	if err := envconfig.Process(EnvPrefix, c); err != nil {
		return nil, fmt.Errorf("解析环境变量失败: %w", err)
	}

	if c.Mode != ModeDebug && c.Mode != ModeRelease {
		return nil, fmt.Errorf("未知的运行模式: %s", c.Mode)
	}
	return c, nil
}

func Get() *Config {
	mu.RLock()
	defer mu.RUnlock()
	return cfg
}

// Set 替换全局配置，测试中也用它注入配置
func Set(c *Config) {
	mu.Lock()
	defer mu.Unlock()
	cfg = c
}
