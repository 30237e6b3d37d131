package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"realtime-chat/internal/bootstrap"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "chat-server",
		Short:        "Real-time chat backend (HTTP + WebSocket)",
		SilenceUsage: true,
		RunE:         runServe,
	}
	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP/WebSocket server and the background worker",
		RunE:  runServe,
	})
	root.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := bootstrap.LoadConfig()
			if err != nil {
				return err
			}
			return bootstrap.RunMigrations(cfg)
		},
	})
	return root
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}

	// 初始化并运行 App
	app, err := bootstrap.NewApp(cfg)
	if err != nil {
		logrus.Errorf("Failed to initialize application: %v", err)
		return err
	}
	app.Start()

	// 设置优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutdown signal received...")

	app.Shutdown()
	return nil
}
