package asynqserver

import (
	"github.com/hibiken/asynq"
	"github.com/vibe-gaming/enrollment/internal/cache"
	"github.com/vibe-gaming/enrollment/internal/config"
	"github.com/vibe-gaming/enrollment/internal/queue/processor"
	"github.com/vibe-gaming/enrollment/internal/queue/task"
	"github.com/vibe-gaming/enrollment/internal/worker"
)

func New(cfg config.Cache, queueCfg config.Queue, workers *worker.Workers) (*asynq.Server, *asynq.ServeMux) {
	mux, queues := getQueues(workers)
	srv := asynq.NewServer(
		RedisOptions(cfg),
		asynq.Config{
			Concurrency: queueCfg.Concurrency,
			LogLevel:    asynq.ErrorLevel,
			Queues:      queues,
		},
	)

	return srv, mux
}

func RedisOptions(cfg config.Cache) asynq.RedisConnOpt {
	var opts asynq.RedisConnOpt
	if cfg.Type == cache.RedisTypeCluster {
		opts = asynq.RedisClusterClientOpt{Addrs: cfg.RedisCluster.Addresses, Password: cfg.RedisCluster.Password}
	} else {
		opts = asynq.RedisClientOpt{Addr: cfg.Redis.Address, Password: cfg.Redis.Password}
	}
	return opts
}

func getQueues(workers *worker.Workers) (*asynq.ServeMux, map[string]int) {
	mux := asynq.NewServeMux()
	mux.Handle(task.RegistrationCompleteTaskName, processor.NewRegistrationCompleteProcessor(workers))
	queues := map[string]int{
		task.RegistrationCompleteQueueName: 1,
	}
	return mux, queues
}
