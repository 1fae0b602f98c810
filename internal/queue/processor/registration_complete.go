package processor

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vibe-gaming/enrollment/internal/queue/task"
	"github.com/vibe-gaming/enrollment/internal/worker"

	"github.com/hibiken/asynq"
)

type registrationCompleteProcessor struct {
	workers *worker.Workers
}

func NewRegistrationCompleteProcessor(workers *worker.Workers) *registrationCompleteProcessor {
	return &registrationCompleteProcessor{
		workers: workers,
	}
}

func (p *registrationCompleteProcessor) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var data task.RegistrationComplete
	err := json.Unmarshal(t.Payload(), &data)
	if err != nil {
		return fmt.Errorf("process registration complete task json unmarshal failed: %w", err)
	}

	if err = p.workers.EmailSender.SendRegistrationCompleteEmail(ctx, data.Email, data.Name, data.SessionID); err != nil {
		return fmt.Errorf("send registration complete email failed: %w", err)
	}

	return nil
}
