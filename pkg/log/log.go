package log

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var sugarLogger *zap.SugaredLogger
var zapLogger *zap.Logger

// Rotation 控制文件日志的滚动策略，字段含义与 lumberjack 一致。
type Rotation struct {
	MaxSize    int // 单个文件最大 MB
	MaxBackups int
	MaxAge     int // 天
	Compress   bool
}

type options struct {
	rotation Rotation
}

// Option 配置 Init 的可选项。
type Option func(*options)

// WithRotation 设置文件日志滚动参数，仅在 outputpath 非空时生效。
func WithRotation(r Rotation) Option {
	return func(o *options) { o.rotation = r }
}

func init() {
	// 未调用 Init 之前也能安全打日志（例如单元测试）
	zapLogger = zap.NewNop()
	sugarLogger = zapLogger.Sugar()
}

func Init(level, format, outputpath string, opts ...Option) {
	o := options{rotation: Rotation{MaxSize: 100, MaxBackups: 7, MaxAge: 30}}
	for _, opt := range opts {
		opt(&o)
	}

	// 根据配置设置日志级别
	logLevel := zap.NewAtomicLevel()
	if err := logLevel.UnmarshalText([]byte(level)); err != nil {
		panic(fmt.Errorf("invalid log level: %w", err))
	}

	var zapConfig zap.Config
	if format == "console" {
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zapConfig = zap.NewProductionConfig()
	}
	zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapConfig.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	zapConfig.Level = logLevel
	zapConfig.Encoding = "json"
	if format == "console" {
		zapConfig.Encoding = "console"
	}
	zapConfig.OutputPaths = []string{"stdout"}

	logger, err := zapConfig.Build()
	if err != nil {
		panic(fmt.Errorf("failed to build logger: %w", err))
	}

	if outputpath != "" {
		// 文件输出交给 lumberjack 做滚动，始终使用 JSON 编码便于采集
		if err := os.MkdirAll(outputpath, 0755); err != nil {
			panic(fmt.Errorf("failed to create log directory: %w", err))
		}
		writer := &lumberjack.Logger{
			Filename:   filepath.Join(outputpath, "app.log"),
			MaxSize:    o.rotation.MaxSize,
			MaxBackups: o.rotation.MaxBackups,
			MaxAge:     o.rotation.MaxAge,
			Compress:   o.rotation.Compress,
		}
		fileEncoderConfig := zap.NewProductionEncoderConfig()
		fileEncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		fileEncoderConfig.EncodeDuration = zapcore.StringDurationEncoder
		fileCore := zapcore.NewCore(zapcore.NewJSONEncoder(fileEncoderConfig), zapcore.AddSync(writer), logLevel)
		logger = logger.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			return zapcore.NewTee(core, fileCore)
		}))
	}

	zapLogger = logger
	sugarLogger = logger.Sugar()
}

// Debugw 使用键值对记录一条 debug 级别的日志
func Debugw(msg string, keysAndValues ...interface{}) {
	sugarLogger.Debugw(msg, keysAndValues...)
}

// Info 记录一条 info 级别的日志
func Info(msg string) {
	sugarLogger.Info(msg)
}

// Infof 使用格式化字符串记录一条 info 级别的日志
func Infof(format string, args ...interface{}) {
	sugarLogger.Infof(format, args...)
}

// Infow 使用键值对记录一条 info 级别的日志
func Infow(msg string, keysAndValues ...interface{}) {
	sugarLogger.Infow(msg, keysAndValues...)
}

// Warnf 使用格式化字符串记录一条 warn 级别的日志
func Warnf(template string, args ...interface{}) {
	sugarLogger.Warnf(template, args...)
}

// Warnw 使用键值对记录一条 warn 级别的日志
func Warnw(msg string, keysAndValues ...interface{}) {
	sugarLogger.Warnw(msg, keysAndValues...)
}

// Error 记录一条 error 级别的日志，并附带 error 信息
func Error(msg string, err error) {
	sugarLogger.Errorw(msg, "error", err)
}

func Errorf(template string, args ...interface{}) {
	sugarLogger.Errorf(template, args...)
}

// Fatal 记录一条 fatal 级别的日志，并附带 error 信息，然后退出程序
func Fatal(msg string, err error) {
	sugarLogger.Fatalw(msg, "error", err)
}

func Fatalf(template string, args ...interface{}) {
	sugarLogger.Fatalf(template, args...)
}

// Sync 将缓冲区中的任何日志刷新到底层 Writer。
func Sync() {
	_ = sugarLogger.Sync()
	_ = zapLogger.Sync()
}

func GetLogger() *zap.Logger {
	return zapLogger
}
