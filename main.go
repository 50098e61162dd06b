package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"riftlog/config"
	"riftlog/database"
	"riftlog/logger"
	"riftlog/web"
)

func main() {
	// 加载配置
	cfg := config.Load()
	logger.Init(cfg.LogLevel)

	logrus.Info("Starting riftlog API server...")

	// 连接数据库
	dbPath := cfg.DatabasePath
	if dbPath == "" {
		var err error
		dbPath, err = database.DefaultPath()
		if err != nil {
			logrus.WithError(err).Fatal("Failed to resolve database path")
		}
	}

	db, err := database.Connect(dbPath)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	// 运行迁移并播种失误目录
	if err := database.Migrate(db); err != nil {
		logrus.WithError(err).Fatal("Failed to migrate database")
	}

	logrus.WithField("path", dbPath).Info("Database connected and migrated")

	// 启动Web服务器
	server := web.NewServer(cfg, db)

	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("Web server error")
		}
	}()

	logrus.WithField("port", cfg.Port).Info("Web server started")
	logrus.Info("Service is running. Press Ctrl+C to stop.")

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down service...")
	server.Stop()
	logrus.Info("Service stopped")
}
