package database

import (
	"errors"
	"fmt"

	"attendance-system/config"
	"attendance-system/internal/global/sentry/tracing"
	"attendance-system/internal/model"
	"attendance-system/tools"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

var DB *gorm.DB

// mysqlDuplicateEntry 唯一索引冲突
const mysqlDuplicateEntry = 1062

var autoMigrateModels = []any{
	&model.User{},
	&model.Employee{},
	&model.Attendance{},
	&model.LeaveType{},
	&model.LeaveBalance{},
	&model.Leave{},
	&model.Payroll{},
}

// dsn 会话按 UTC 收发时间，DATE 列存的就是 model.DateOf 的年月日；
// clientFoundRows 让 UPDATE 返回匹配行数而不是实际改动的行数
func dsn(c config.Mysql) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC&clientFoundRows=true",
		c.Username, c.Password, c.Host, c.Port, c.DBName)
}

func Init() {
	gormConfig := &gorm.Config{
		NamingStrategy: schema.NamingStrategy{SingularTable: true}, // 还是单数表名好
	}

	switch config.Get().Mode {
	case config.ModeDebug:
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	case config.ModeRelease:
		gormConfig.Logger = logger.Discard
	}

	db, err := gorm.Open(mysql.Open(dsn(config.Get().Mysql)), gormConfig)
	tools.PanicOnErr(err)

	if tracing.IsEnabled() {
		tools.PanicOnErr(db.Use(tracing.NewGormTracingPlugin()))
	}
	DB = db

	tools.PanicOnErr(DB.AutoMigrate(autoMigrateModels...))
}

// IsDuplicateKey 判断是否为唯一索引冲突（同一员工同一天重复建行等）
func IsDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var me *mysqldriver.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}
