package task

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	RegistrationCompleteTaskName  = "registrationCompleteTask"
	RegistrationCompleteQueueName = "registrationCompleteQueue"
)

type RegistrationComplete struct {
	SessionID string `json:"session_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
}

func NewRegistrationCompleteTask(sessionID, name, email string) (*asynq.Task, error) {
	data := RegistrationComplete{
		SessionID: sessionID,
		Name:      name,
		Email:     email,
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("json data marshal failed: %w", err)
	}

	return asynq.NewTask(
		RegistrationCompleteTaskName,
		payload,
		asynq.MaxRetry(5),
		asynq.Queue(RegistrationCompleteQueueName),
		// one email per session even if the device retries its attach call
		asynq.TaskID(RegistrationCompleteTaskName+":"+sessionID),
	), nil
}
