package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"realtime-chat/internal/tasks"
)

// WorkerServer 封装了 Asynq Worker Server 的启动和关闭逻辑
type WorkerServer struct {
	server  *asynq.Server
	log     *logrus.Entry
	handler *PurgeHandler
}

// NewWorkerServer 创建一个新的 WorkerServer 实例
func NewWorkerServer(redisOpt asynq.RedisClientOpt, handler *PurgeHandler, logger *logrus.Logger) *WorkerServer {
	if handler == nil {
		panic("PurgeHandler cannot be nil for WorkerServer")
	}
	logEntry := logger.WithField("component", "worker_server")

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 5,
			Queues: map[string]int{
				"default": 1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				taskID := ""
				if rw := task.ResultWriter(); rw != nil {
					taskID = rw.TaskID()
				}
				retryCount, _ := asynq.GetRetryCount(ctx)
				maxRetry, _ := asynq.GetMaxRetry(ctx)
				logEntry.WithFields(logrus.Fields{
					"task_id":   taskID,
					"task_type": task.Type(),
					"retries":   retryCount,
					"max_retry": maxRetry,
				}).Errorf("Task failed: %v", err)
			}),
			Logger: &asynqLogger{entry: logEntry},
		},
	)

	return &WorkerServer{
		server:  server,
		log:     logEntry,
		handler: handler,
	}
}

// Mux 返回注册了全部任务处理器的 ServeMux
func (ws *WorkerServer) Mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeRoomPurge, ws.handler.ProcessRoomPurge)
	mux.HandleFunc(tasks.TypeUserPurge, ws.handler.ProcessUserPurge)
	return mux
}

// Start 启动 Worker Server 的处理协程后立即返回。
// 信号由调用方处理，结束时调用 Shutdown。
func (ws *WorkerServer) Start() error {
	ws.log.Info("Worker server starting...")
	if err := ws.server.Start(ws.Mux()); err != nil {
		if errors.Is(err, asynq.ErrServerClosed) {
			ws.log.Info("Worker server already stopped.")
			return nil
		}
		return fmt.Errorf("could not start worker server: %w", err)
	}
	return nil
}

// Shutdown 优雅地关闭 Worker Server
func (ws *WorkerServer) Shutdown() {
	ws.log.Info("Shutting down worker server...")
	ws.server.Shutdown()
	ws.log.Info("Worker server shut down complete.")
}

// asynqLogger 把 asynq 的日志接到 logrus
type asynqLogger struct {
	entry *logrus.Entry
}

func (l *asynqLogger) Debug(args ...interface{}) { l.entry.Debug(args...) }
func (l *asynqLogger) Info(args ...interface{})  { l.entry.Info(args...) }
func (l *asynqLogger) Warn(args ...interface{})  { l.entry.Warn(args...) }
func (l *asynqLogger) Error(args ...interface{}) { l.entry.Error(args...) }
func (l *asynqLogger) Fatal(args ...interface{}) { l.entry.Fatal(args...) }
