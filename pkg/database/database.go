// Package database 提供关系库连接、GORM 实例初始化与表迁移。
package database

import (
	"fmt"
	"strings"
	"time"

	"changeready_go/internal/model"
	"changeready_go/pkg/log"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"moul.io/zapgorm2"
)

// Options 连接参数，零值字段使用默认值。
type Options struct {
	Driver          string
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	SlowThreshold   time.Duration
}

// Dialector 根据驱动名返回对应的 gorm 方言。
func Dialector(driver, dsn string) (gorm.Dialector, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "mysql":
		return mysql.Open(dsn), nil
	case "postgres", "postgresql":
		return postgres.Open(dsn), nil
	case "sqlite", "sqlite3":
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// NewLogger gorm 日志走同一个 zap 实例，记录不存在的错误不打印。
func NewLogger(slowThreshold time.Duration) gormlogger.Interface {
	gl := zapgorm2.New(log.GetLogger())
	gl.IgnoreRecordNotFoundError = true
	gl.LogLevel = gormlogger.Warn
	if slowThreshold > 0 {
		gl.SlowThreshold = slowThreshold
	}
	return gl
}

// Open 建立连接并配置连接池。
func Open(opts Options) (*gorm.DB, error) {
	dialector, err := Dialector(opts.Driver, opts.DSN)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: NewLogger(opts.SlowThreshold)})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}
	if opts.MaxIdleConns <= 0 {
		opts.MaxIdleConns = 10
	}
	if opts.MaxOpenConns <= 0 {
		opts.MaxOpenConns = 100
	}
	if opts.ConnMaxLifetime <= 0 {
		opts.ConnMaxLifetime = time.Hour
	}
	sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)

	log.Infow("database connected", "driver", opts.Driver)
	return db, nil
}

// RunMigrate 创建或更新全部业务表。
func RunMigrate(db *gorm.DB) error {
	log.Info("Running migrations...")

	if err := db.AutoMigrate(
		&model.Company{},
		&model.User{},
		&model.SurveyTemplate{},
		&model.SurveyInstance{},
		&model.SurveyAnswer{},
		&model.StakeholderGroup{},
		&model.StakeholderPerson{},
		&model.Measure{},
	); err != nil {
		log.Errorf("Failed to run migrations: %v", err)
		return err
	}

	log.Info("Migrations completed successfully")
	return nil
}
