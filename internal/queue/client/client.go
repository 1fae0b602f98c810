package client

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/hibiken/asynq"

	"github.com/vibe-gaming/enrollment/internal/domain"
	"github.com/vibe-gaming/enrollment/internal/queue/task"
)

type ctxKey int

const (
	_ ctxKey = iota
	asyncQCtxKey
)

var (
	globalClient *asynq.Client
	globalMu     sync.RWMutex
)

var ErrNoClient = errors.New("asynq client is not configured")

// GetClient returns the Client stored in ctx, or else the global one set with SetClient.
// It's safe for concurrent use.
func GetClient(ctx context.Context) *asynq.Client {
	c := ctx.Value(asyncQCtxKey)
	if c != nil {
		client, ok := c.(*asynq.Client)
		if !ok {
			return nil
		}

		return client
	}

	globalMu.RLock()
	client := globalClient
	globalMu.RUnlock()

	return client
}

// WithClient returns a ctx that makes GetClient return client.
func WithClient(ctx context.Context, client *asynq.Client) context.Context {
	return context.WithValue(ctx, asyncQCtxKey, client)
}

// SetClient replaces the global Client, and returns a
// function to restore the original value. It's safe for concurrent use.
func SetClient(client *asynq.Client) func() {
	globalMu.Lock()
	prev := globalClient
	globalClient = client
	globalMu.Unlock()
	return func() { SetClient(prev) }
}

// Notifier enqueues the completion email of activated registrations.
type Notifier struct{}

func (Notifier) RegistrationCompleted(ctx context.Context, registration *domain.Registration) error {
	client := GetClient(ctx)
	if client == nil {
		return ErrNoClient
	}

	t, err := task.NewRegistrationCompleteTask(registration.SessionID, registration.Name, registration.Email)
	if err != nil {
		return err
	}

	if _, err := client.EnqueueContext(ctx, t); err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			return nil
		}
		return fmt.Errorf("enqueue registration complete task failed: %w", err)
	}

	return nil
}
