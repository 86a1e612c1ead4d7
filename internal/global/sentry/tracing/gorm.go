package tracing

import (
	"time"

	"attendance-system/config"

	"github.com/getsentry/sentry-go"
	"gorm.io/gorm"
)

const (
	gormSpanKey    = "sentry:span"
	gormStartKey   = "sentry:start"
	callbackPrefix = "sentry_tracing"
)

// GormTracingPlugin 实现 gorm.Plugin，为每条 SQL 创建子 span
type GormTracingPlugin struct {
	// slowThreshold 慢查询阈值，低于它的 span 不上报；0 表示全部上报
	slowThreshold time.Duration
}

func NewGormTracingPlugin() *GormTracingPlugin {
	ms := config.Get().Sentry.Tracing.DBSlowThresholdMs
	return &GormTracingPlugin{slowThreshold: time.Duration(ms) * time.Millisecond}
}

func (p *GormTracingPlugin) Name() string {
	return "SentryTracingPlugin"
}

// Initialize 在 create/query/update/delete/row/raw 前后注册回调
func (p *GormTracingPlugin) Initialize(db *gorm.DB) error {
	cb := db.Callback()
	hooks := []struct {
		name string
		op   string
		reg  func(string, string, func(*gorm.DB), func(*gorm.DB)) error
	}{
		{"create", "db.sql.create", func(b, a string, before, after func(*gorm.DB)) error {
			if err := cb.Create().Before("gorm:create").Register(b, before); err != nil {
				return err
			}
			return cb.Create().After("gorm:create").Register(a, after)
		}},
		{"query", "db.sql.query", func(b, a string, before, after func(*gorm.DB)) error {
			if err := cb.Query().Before("gorm:query").Register(b, before); err != nil {
				return err
			}
			return cb.Query().After("gorm:query").Register(a, after)
		}},
		{"update", "db.sql.update", func(b, a string, before, after func(*gorm.DB)) error {
			if err := cb.Update().Before("gorm:update").Register(b, before); err != nil {
				return err
			}
			return cb.Update().After("gorm:update").Register(a, after)
		}},
		{"delete", "db.sql.delete", func(b, a string, before, after func(*gorm.DB)) error {
			if err := cb.Delete().Before("gorm:delete").Register(b, before); err != nil {
				return err
			}
			return cb.Delete().After("gorm:delete").Register(a, after)
		}},
		{"row", "db.sql.row", func(b, a string, before, after func(*gorm.DB)) error {
			if err := cb.Row().Before("gorm:row").Register(b, before); err != nil {
				return err
			}
			return cb.Row().After("gorm:row").Register(a, after)
		}},
		{"raw", "db.sql.raw", func(b, a string, before, after func(*gorm.DB)) error {
			if err := cb.Raw().Before("gorm:raw").Register(b, before); err != nil {
				return err
			}
			return cb.Raw().After("gorm:raw").Register(a, after)
		}},
	}
	for _, h := range hooks {
		if err := h.reg(callbackPrefix+":before_"+h.name, callbackPrefix+":after_"+h.name, p.before(h.op), p.after); err != nil {
			return err
		}
	}
	return nil
}

func (p *GormTracingPlugin) before(operation string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		if db.Statement == nil || db.Statement.Context == nil {
			return
		}
		db.InstanceSet(gormStartKey, time.Now())

		parent := sentry.SpanFromContext(db.Statement.Context)
		if parent == nil {
			return
		}
		span := parent.StartChild(operation)
		// 只记录表名，不记录完整 SQL（考勤照片链接、薪资等敏感数据）
		span.Description = db.Statement.Table
		if span.Description == "" {
			span.Description = "unknown"
		}
		span.SetData("db.system", "mysql")
		db.InstanceSet(gormSpanKey, span)
		db.Statement.Context = span.Context()
	}
}

func (p *GormTracingPlugin) after(db *gorm.DB) {
	if db.Statement == nil {
		return
	}
	startVal, ok := db.InstanceGet(gormStartKey)
	if !ok {
		return
	}
	start, _ := startVal.(time.Time)
	spanVal, ok := db.InstanceGet(gormSpanKey)
	if !ok {
		return
	}
	span, ok := spanVal.(*sentry.Span)
	if !ok || span == nil {
		return
	}

	span.SetData("db.rows_affected", db.RowsAffected)
	slow := p.slowThreshold <= 0 || time.Since(start) >= p.slowThreshold
	finishSpan(span, db.Error != nil, slow, "db.error", db.Error)
}
