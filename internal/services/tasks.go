package services

import (
	"strings"
	"time"

	"todo-api/backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TaskFilter string

const (
	FilterAll       TaskFilter = "all"
	FilterPending   TaskFilter = "pending"
	FilterCompleted TaskFilter = "completed"
)

// ParseTaskFilter maps the filter_status query value to a filter.
// Unrecognized values fall back to "all".
func ParseTaskFilter(value string) TaskFilter {
	switch TaskFilter(value) {
	case FilterPending:
		return FilterPending
	case FilterCompleted:
		return FilterCompleted
	default:
		return FilterAll
	}
}

// TaskUpdates carries a partial update; nil fields are left unchanged.
type TaskUpdates struct {
	Title       *string
	Description *string
}

// TaskService is the store accessor for tasks. Every operation is scoped
// to an owner identity: a row that exists under a different owner is
// indistinguishable from one that does not exist at all.
type TaskService interface {
	ListTasks(db *gorm.DB, owner string, filter TaskFilter) ([]models.Task, error)
	CreateTask(db *gorm.DB, owner, title string, description *string) (models.Task, error)
	GetTaskByID(db *gorm.DB, owner string, id int64) (models.Task, error)
	UpdateTask(db *gorm.DB, owner string, id int64, updates TaskUpdates) (models.Task, error)
	DeleteTask(db *gorm.DB, owner string, id int64) error
	ToggleTaskCompletion(db *gorm.DB, owner string, id int64) (models.Task, error)
}

type TaskServiceImpl struct{}

func NewTaskService() *TaskServiceImpl {
	return &TaskServiceImpl{}
}

func (s *TaskServiceImpl) ListTasks(db *gorm.DB, owner string, filter TaskFilter) ([]models.Task, error) {
	query := db.Where("user_id = ?", owner)

	switch filter {
	case FilterPending:
		query = query.Where("completed = ?", false)
	case FilterCompleted:
		query = query.Where("completed = ?", true)
	}

	tasks := []models.Task{}
	result := query.Order("created_at DESC").Find(&tasks)
	return tasks, result.Error
}

func (s *TaskServiceImpl) CreateTask(db *gorm.DB, owner, title string, description *string) (models.Task, error) {
	task := models.Task{
		UserID:    owner,
		Title:     strings.TrimSpace(title),
		Completed: false,
	}
	if description != nil {
		trimmed := strings.TrimSpace(*description)
		task.Description = &trimmed
	}

	result := db.Create(&task)
	return task, result.Error
}

func (s *TaskServiceImpl) GetTaskByID(db *gorm.DB, owner string, id int64) (models.Task, error) {
	var task models.Task
	result := db.Where("id = ? AND user_id = ?", id, owner).First(&task)
	return task, result.Error
}

func (s *TaskServiceImpl) UpdateTask(db *gorm.DB, owner string, id int64, updates TaskUpdates) (models.Task, error) {
	var task models.Task
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).Where("id = ? AND user_id = ?", id, owner).First(&task).Error; err != nil {
			return err
		}

		if updates.Title != nil {
			task.Title = strings.TrimSpace(*updates.Title)
		}
		if updates.Description != nil {
			trimmed := strings.TrimSpace(*updates.Description)
			task.Description = &trimmed
		}
		task.UpdatedAt = time.Now().UTC()

		return tx.Save(&task).Error
	})
	return task, err
}

func (s *TaskServiceImpl) DeleteTask(db *gorm.DB, owner string, id int64) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var task models.Task
		if err := lockForUpdate(tx).Where("id = ? AND user_id = ?", id, owner).First(&task).Error; err != nil {
			return err
		}
		return tx.Delete(&task).Error
	})
}

func (s *TaskServiceImpl) ToggleTaskCompletion(db *gorm.DB, owner string, id int64) (models.Task, error) {
	var task models.Task
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).Where("id = ? AND user_id = ?", id, owner).First(&task).Error; err != nil {
			return err
		}

		task.Completed = !task.Completed
		task.UpdatedAt = time.Now().UTC()

		return tx.Save(&task).Error
	})
	return task, err
}

// lockForUpdate serializes the read-check-write sequence per row. SQLite
// rejects FOR UPDATE and serializes writers on its own.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
