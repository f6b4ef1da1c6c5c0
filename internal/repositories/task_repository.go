package repositories

import (
	"context"
	"errors"
	"fmt"

	"tasks-api/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

var ErrTaskNotFound = errors.New("task not found")

// TaskRepository is the persistence client the service layer talks to.
type TaskRepository interface {
	Count(ctx context.Context, filter models.TaskFilter) (int64, error)
	FindPage(ctx context.Context, offset, limit int) ([]models.Task, error)
	// FindByID returns nil and no error when no task has the id.
	FindByID(ctx context.Context, id uuid.UUID) (*models.Task, error)
	Create(ctx context.Context, task *models.Task) error
	// Update and Delete return ErrTaskNotFound when no row matched.
	Update(ctx context.Context, id uuid.UUID, changes models.TaskChanges) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type GormTaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *GormTaskRepository {
	return &GormTaskRepository{db: db}
}

func (r *GormTaskRepository) Count(ctx context.Context, filter models.TaskFilter) (int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Task{})
	if filter.Completed != nil {
		query = query.Where("completed = ?", *filter.Completed)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return count, nil
}

func (r *GormTaskRepository) FindPage(ctx context.Context, offset, limit int) ([]models.Task, error) {
	tasks := []models.Task{}
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("find tasks: %w", err)
	}
	return tasks, nil
}

func (r *GormTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	var task models.Task
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&task).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find task %s: %w", id, err)
	}
	return &task, nil
}

func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (r *GormTaskRepository) Update(ctx context.Context, id uuid.UUID, changes models.TaskChanges) error {
	values := map[string]interface{}{
		"title": changes.Title,
		"color": changes.Color,
	}
	if changes.Completed != nil {
		values["completed"] = *changes.Completed
	}

	result := r.db.WithContext(ctx).Model(&models.Task{}).Where("id = ?", id).Updates(values)
	if result.Error != nil {
		return fmt.Errorf("update task %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("update task %s: %w", id, ErrTaskNotFound)
	}
	return nil
}

func (r *GormTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Task{})
	if result.Error != nil {
		return fmt.Errorf("delete task %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("delete task %s: %w", id, ErrTaskNotFound)
	}
	return nil
}
