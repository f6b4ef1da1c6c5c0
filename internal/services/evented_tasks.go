package services

import (
	"context"
	"log"

	"tasks-api/internal/events"
	"tasks-api/internal/models"
)

// EventedTaskService publishes a task event after every successful mutation.
// Publishing is best effort: a failure is logged and the mutation still succeeds.
type EventedTaskService struct {
	taskService TaskService
	publisher   events.Publisher
}

func NewEventedTaskService(taskService TaskService, publisher events.Publisher) *EventedTaskService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &EventedTaskService{taskService: taskService, publisher: publisher}
}

func (s *EventedTaskService) ListTasks(ctx context.Context, page, pageSize int) (TaskPage, error) {
	return s.taskService.ListTasks(ctx, page, pageSize)
}

func (s *EventedTaskService) GetTaskByID(ctx context.Context, id string) (*models.Task, error) {
	return s.taskService.GetTaskByID(ctx, id)
}

func (s *EventedTaskService) CreateTask(ctx context.Context, title, color string) (*models.Task, error) {
	task, err := s.taskService.CreateTask(ctx, title, color)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.NewTaskEvent(events.TaskCreated, task.ID.String(), task))
	return task, nil
}

func (s *EventedTaskService) UpdateTask(ctx context.Context, id string, changes models.TaskChanges) error {
	if err := s.taskService.UpdateTask(ctx, id, changes); err != nil {
		return err
	}

	task, getErr := s.taskService.GetTaskByID(ctx, id)
	if getErr != nil {
		task = nil
	}
	s.publish(ctx, events.NewTaskEvent(events.TaskUpdated, id, task))
	return nil
}

func (s *EventedTaskService) DeleteTask(ctx context.Context, id string) error {
	if err := s.taskService.DeleteTask(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, events.NewTaskEvent(events.TaskDeleted, id, nil))
	return nil
}

func (s *EventedTaskService) publish(ctx context.Context, event events.TaskEvent) {
	// The mutation is committed; a client disconnect must not drop the event.
	if err := s.publisher.Publish(context.WithoutCancel(ctx), event); err != nil {
		log.Printf("Failed to publish %s for task %s: %v", event.Type, event.TaskID, err)
	}
}
