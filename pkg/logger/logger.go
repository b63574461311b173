// Package logger 封装logrus，提供全局结构化日志
//
// 设计说明：
// 1. 支持JSON/文本两种格式（生产用JSON便于ELK/Loki检索）
// 2. 输出到stdout/stderr或文件，文件输出通过lumberjack按大小轮转
// 3. 未调用Setup前使用logrus默认Logger，保证测试中也能直接调用
package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options 日志配置
type Options struct {
	Level      string // debug | info | warn | error
	Format     string // json | console
	Output     string // stdout | stderr | /path/to/file.log
	MaxSizeMB  int    // 单个日志文件最大体积(MB)
	MaxBackups int    // 保留的旧文件数量
	MaxAgeDays int    // 旧文件保留天数
	Compress   bool   // 是否gzip压缩旧文件
	Console    bool   // 写文件时是否同时输出到stderr
}

var std = logrus.New()

// Setup 初始化全局Logger
// 应在main中加载配置后调用一次
func Setup(opts Options) error {
	l := logrus.New()

	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	if strings.EqualFold(opts.Format, "json") {
		l.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	} else {
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	out, err := buildOutput(opts)
	if err != nil {
		return err
	}
	l.SetOutput(out)

	std = l
	return nil
}

// buildOutput 根据Output构建写入目标
func buildOutput(opts Options) (io.Writer, error) {
	switch strings.ToLower(opts.Output) {
	case "", "stdout":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	}

	// 文件输出：确保目录存在，交给lumberjack负责轮转
	if err := os.MkdirAll(filepath.Dir(opts.Output), 0o755); err != nil {
		return nil, err
	}
	file := &lumberjack.Logger{
		Filename:   opts.Output,
		MaxSize:    orDefault(opts.MaxSizeMB, 100),
		MaxBackups: orDefault(opts.MaxBackups, 7),
		MaxAge:     orDefault(opts.MaxAgeDays, 28),
		Compress:   opts.Compress,
	}
	if opts.Console {
		return io.MultiWriter(file, os.Stderr), nil
	}
	return file, nil
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// L 返回全局Logger（用于需要直接操作logrus的场景）
func L() *logrus.Logger {
	return std
}

// WithField 附加单个字段
func WithField(key string, value interface{}) *logrus.Entry {
	return std.WithField(key, value)
}

// WithFields 附加多个字段
func WithFields(fields logrus.Fields) *logrus.Entry {
	return std.WithFields(fields)
}

// WithError 附加错误字段
func WithError(err error) *logrus.Entry {
	return std.WithError(err)
}

func Debugf(format string, args ...interface{}) { std.Debugf(format, args...) }
func Infof(format string, args ...interface{})  { std.Infof(format, args...) }
func Warnf(format string, args ...interface{})  { std.Warnf(format, args...) }
func Errorf(format string, args ...interface{}) { std.Errorf(format, args...) }
func Fatalf(format string, args ...interface{}) { std.Fatalf(format, args...) }
