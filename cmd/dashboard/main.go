package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"riftlog/client"
	"riftlog/config"
	"riftlog/tui"
)

// 终端客户端入口，连接运行中的服务端
func main() {
	cfg := config.Load()

	api := client.NewWithURL(cfg.APIBaseURL)
	app := tui.NewApp(api, time.Duration(cfg.PollInterval)*time.Second)

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running dashboard: %v\n", err)
		os.Exit(1)
	}
}
