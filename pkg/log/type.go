package log

import "go.uber.org/zap"

// ZapConfig mirrors config.LoggerConfig.
type ZapConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

type zapLogger struct {
	sugar *zap.SugaredLogger
}
