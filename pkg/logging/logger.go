// Package logging 构建全局使用的 zap 日志器
//
// 库代码（引擎、系统）只接收 *zap.Logger，缺省为 zap.NewNop()；
// 只有命令行入口决定输出格式和级别。
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New 创建日志器
//
// verbose=false：生产配置，Info 级别，JSON 输出到 stderr
// verbose=true：开发配置，Debug 级别，带颜色的控制台输出
func New(verbose bool) (*zap.Logger, error) {
	return build(verbose, "stderr", true)
}

// NewFile 创建写入 path 的日志器，文件以追加方式打开
// 终端界面占用 stderr 时使用，级别规则与 New 相同，不输出颜色
func NewFile(path string, verbose bool) (*zap.Logger, error) {
	if path == "" {
		return nil, fmt.Errorf("failed to initialize logger: empty log file path")
	}
	return build(verbose, path, false)
}

func build(verbose bool, output string, color bool) (*zap.Logger, error) {
	var cfg zap.Config
	if verbose {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		if color {
			cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Sampling = nil
	}
	cfg.OutputPaths = []string{output}
	cfg.ErrorOutputPaths = []string{output}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// OrNop 返回 l，l 为 nil 时返回空日志器
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
