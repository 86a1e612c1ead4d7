package capture

import (
	"log/slog"
	"time"

	"attendance-system/internal/global/logger"
)

type Options struct {
	// IdleTTL 控制器空闲多久后被回收，0 表示不回收
	IdleTTL time.Duration
	Now     func() time.Time
	Logger  *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Logger == nil {
		o.Logger = logger.New("Capture")
	}
	return o
}
