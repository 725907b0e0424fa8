// Package logging 基于 zerolog 提供统一的结构化日志。
//
//	logger := logging.New("info", "json")
//	logger.Info().Str("component", "engine").Msg("started")
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New 按级别与格式创建 logger。format 为 "console" 时输出人类可读格式，其余输出 JSON。
func New(level, format string) zerolog.Logger {
	return NewWithWriter(os.Stderr, level, format)
}

// NewWithWriter 同 New，但可以指定输出（测试用）。
func NewWithWriter(w io.Writer, level, format string) zerolog.Logger {
	if strings.EqualFold(format, "console") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).
		Level(ParseLevel(level)).
		With().
		Timestamp().
		Logger()
}

// ParseLevel 解析日志级别，未知值回退到 info。
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

// Nop 返回丢弃所有输出的 logger。
func Nop() zerolog.Logger { return zerolog.Nop() }
