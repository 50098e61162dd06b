package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	// 服务器配置
	Port string

	// 数据库配置
	DatabasePath string

	// 客户端配置
	APIBaseURL   string
	PollInterval int // 仪表盘轮询间隔(秒)

	// 其他配置
	Environment string
	LogLevel    string
}

// Load 从环境变量加载配置；当前目录存在 .env 时先加载它
func Load() *Config {
	// .env 不存在不算错误
	_ = godotenv.Load()

	return &Config{
		// 服务器配置
		Port: getEnv("PORT", "5000"),

		// 数据库配置
		DatabasePath: getEnv("DATABASE_PATH", ""),

		// 客户端配置
		APIBaseURL:   getEnv("API_BASE_URL", "http://localhost:5000/api"),
		PollInterval: getEnvInt("POLL_INTERVAL_SECONDS", 30),

		// 其他配置
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var result int
	fmt.Sscanf(value, "%d", &result)
	if result == 0 {
		return defaultValue
	}
	return result
}
