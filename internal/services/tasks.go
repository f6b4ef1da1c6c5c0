package services

import (
	"context"
	"fmt"
	"math"

	"tasks-api/internal/models"
	"tasks-api/internal/repositories"

	"github.com/gofrs/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 5
)

type TaskPage struct {
	Tasks     []models.Task `json:"tasks"`
	Total     int64         `json:"total"`
	Completed int64         `json:"completed"`
}

type TaskService interface {
	ListTasks(ctx context.Context, page, pageSize int) (TaskPage, error)
	// GetTaskByID returns nil and no error when the task does not exist.
	GetTaskByID(ctx context.Context, id string) (*models.Task, error)
	CreateTask(ctx context.Context, title, color string) (*models.Task, error)
	UpdateTask(ctx context.Context, id string, changes models.TaskChanges) error
	DeleteTask(ctx context.Context, id string) error
}

type TaskServiceImpl struct {
	repo repositories.TaskRepository
}

func NewTaskService(repo repositories.TaskRepository) *TaskServiceImpl {
	return &TaskServiceImpl{repo: repo}
}

func (s *TaskServiceImpl) ListTasks(ctx context.Context, page, pageSize int) (TaskPage, error) {
	if page < 1 {
		page = DefaultPage
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	var result TaskPage
	completed := true

	g, gctx := errgroup.WithContext(ctx)
	goSafe(g, func() error {
		total, err := s.repo.Count(gctx, models.TaskFilter{})
		result.Total = total
		return err
	})
	goSafe(g, func() error {
		done, err := s.repo.Count(gctx, models.TaskFilter{Completed: &completed})
		result.Completed = done
		return err
	})
	// An offset past math.MaxInt lies beyond any table, so the page is empty.
	if page-1 <= math.MaxInt/pageSize {
		goSafe(g, func() error {
			tasks, err := s.repo.FindPage(gctx, (page-1)*pageSize, pageSize)
			result.Tasks = tasks
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return TaskPage{}, err
	}
	if result.Tasks == nil {
		result.Tasks = []models.Task{}
	}
	return result, nil
}

// goSafe runs fn on g and turns a panic into an error. Panics in errgroup
// goroutines are out of reach of the HTTP recovery middleware.
func goSafe(g *errgroup.Group, fn func() error) {
	g.Go(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("list tasks: panic: %v", r)
			}
		}()
		return fn()
	})
}

func (s *TaskServiceImpl) GetTaskByID(ctx context.Context, id string) (*models.Task, error) {
	taskID, err := uuid.FromString(id)
	if err != nil {
		return nil, nil
	}
	return s.repo.FindByID(ctx, taskID)
}

func (s *TaskServiceImpl) CreateTask(ctx context.Context, title, color string) (*models.Task, error) {
	task := &models.Task{Title: title, Color: color}
	if err := s.repo.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskServiceImpl) UpdateTask(ctx context.Context, id string, changes models.TaskChanges) error {
	taskID, err := uuid.FromString(id)
	if err != nil {
		return fmt.Errorf("update task %q: %w", id, repositories.ErrTaskNotFound)
	}
	return s.repo.Update(ctx, taskID, changes)
}

func (s *TaskServiceImpl) DeleteTask(ctx context.Context, id string) error {
	taskID, err := uuid.FromString(id)
	if err != nil {
		return fmt.Errorf("delete task %q: %w", id, repositories.ErrTaskNotFound)
	}
	return s.repo.Delete(ctx, taskID)
}
