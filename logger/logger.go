package logger

import (
	"github.com/sirupsen/logrus"
)

// Init 配置全局日志格式与级别
func Init(level string) {
	customFormatter := new(logrus.TextFormatter)
	customFormatter.TimestampFormat = "2006-01-02 15:04:05"
	customFormatter.FullTimestamp = true
	logrus.SetFormatter(customFormatter)

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logrus.SetLevel(parsed)
}

// Default 返回标准logger入口
func Default() *logrus.Entry {
	return logrus.NewEntry(logrus.StandardLogger())
}
