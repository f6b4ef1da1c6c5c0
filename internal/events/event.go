package events

import (
	"context"
	"time"

	"tasks-api/internal/models"
)

type EventType string

const (
	TaskCreated EventType = "task.created"
	TaskUpdated EventType = "task.updated"
	TaskDeleted EventType = "task.deleted"
)

// TaskEvent is published after a mutation has been committed.
type TaskEvent struct {
	Type       EventType    `json:"type"`
	TaskID     string       `json:"taskId"`
	Task       *models.Task `json:"task,omitempty"`
	OccurredAt time.Time    `json:"occurredAt"`
}

func NewTaskEvent(eventType EventType, taskID string, task *models.Task) TaskEvent {
	return TaskEvent{
		Type:       eventType,
		TaskID:     taskID,
		Task:       task,
		OccurredAt: time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, event TaskEvent) error
	Stats() map[string]interface{}
	Health(ctx context.Context) error
	Close() error
}

// NoopPublisher drops every event. It is used when events are disabled.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, TaskEvent) error { return nil }

func (NoopPublisher) Stats() map[string]interface{} {
	return map[string]interface{}{"enabled": false}
}

func (NoopPublisher) Health(context.Context) error { return nil }

func (NoopPublisher) Close() error { return nil }
