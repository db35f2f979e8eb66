package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"marketplace/api"
	"marketplace/config"
	"marketplace/infrastructure/realtime"
	"marketplace/pkg/logger"

	"go.uber.org/zap"
)

// App 应用程序结构体
type App struct {
	config  *config.Config
	router  *api.Router
	server  *http.Server
	hub     *realtime.Hub
	closeDB func() error
}

// Run 启动 HTTP 服务，收到 SIGINT/SIGTERM 后优雅关闭
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting",
			zap.String("addr", a.server.Addr),
			zap.String("health", "/api/v1/health"))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			a.release()
			return err
		}
	case <-ctx.Done():
		logger.Info("Shutting down server...")
	}

	return a.Shutdown(context.Background())
}

// Shutdown 停止接收新请求，等待进行中的请求结束，然后释放连接与数据库
func (a *App) Shutdown(ctx context.Context) error {
	timeout := a.config.Server.ShutdownTimeout
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	err := a.server.Shutdown(ctx)
	if err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	a.release()
	logger.Info("Server stopped")
	_ = logger.Sync()
	return err
}

func (a *App) release() {
	if a.hub != nil {
		a.hub.Close()
	}
	if a.closeDB != nil {
		if err := a.closeDB(); err != nil {
			logger.Warn("Failed to close database", zap.Error(err))
		}
	}
}

// Handler 返回 HTTP 处理器（用于测试）
func (a *App) Handler() http.Handler {
	return a.router.GetEngine()
}
