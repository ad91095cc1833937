package logger

import (
	"log"

	"go.uber.org/zap"
)

// Init 初始化全局 zap logger
// debug 模式下输出开发格式（彩色、可读），否则输出 JSON
func Init(debug bool) *zap.Logger {
	var (
		l   *zap.Logger
		err error
	)
	if debug {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	zap.ReplaceGlobals(l)
	return l
}

// L 获取全局 logger
func L() *zap.Logger {
	return zap.L()
}
