package services

import (
	"fmt"
	"time"

	"todo-api/backend/internal/cache"
	"todo-api/backend/internal/models"

	"gorm.io/gorm"
)

const taskCacheTTL = 30 * time.Second

// CachedTaskService decorates a TaskService with read-through caching of
// list and get results. Every mutation evicts the owner's whole key space
// so stale reads never outlive a write.
type CachedTaskService struct {
	inner TaskService
	cache cache.Cache
}

func NewCachedTaskService(inner TaskService, c cache.Cache) *CachedTaskService {
	return &CachedTaskService{inner: inner, cache: c}
}

func listKey(owner string, filter TaskFilter) string {
	return fmt.Sprintf("tasks:user:%s:list:%s", owner, filter)
}

func taskKey(owner string, id int64) string {
	return fmt.Sprintf("tasks:user:%s:id:%d", owner, id)
}

func ownerPattern(owner string) string {
	return fmt.Sprintf("tasks:user:%s:*", owner)
}

func (s *CachedTaskService) ListTasks(db *gorm.DB, owner string, filter TaskFilter) ([]models.Task, error) {
	key := listKey(owner, filter)

	var cached []models.Task
	if err := s.cache.Get(key, &cached); err == nil {
		return cached, nil
	}

	tasks, err := s.inner.ListTasks(db, owner, filter)
	if err != nil {
		return nil, err
	}

	// Cache errors are not the caller's problem.
	_ = s.cache.Set(key, tasks, taskCacheTTL)
	return tasks, nil
}

func (s *CachedTaskService) CreateTask(db *gorm.DB, owner, title string, description *string) (models.Task, error) {
	task, err := s.inner.CreateTask(db, owner, title, description)
	if err == nil {
		_ = s.cache.DeletePattern(ownerPattern(owner))
	}
	return task, err
}

func (s *CachedTaskService) GetTaskByID(db *gorm.DB, owner string, id int64) (models.Task, error) {
	key := taskKey(owner, id)

	var cached models.Task
	if err := s.cache.Get(key, &cached); err == nil {
		return cached, nil
	}

	task, err := s.inner.GetTaskByID(db, owner, id)
	if err != nil {
		return task, err
	}

	_ = s.cache.Set(key, task, taskCacheTTL)
	return task, nil
}

func (s *CachedTaskService) UpdateTask(db *gorm.DB, owner string, id int64, updates TaskUpdates) (models.Task, error) {
	task, err := s.inner.UpdateTask(db, owner, id, updates)
	if err == nil {
		_ = s.cache.DeletePattern(ownerPattern(owner))
	}
	return task, err
}

func (s *CachedTaskService) DeleteTask(db *gorm.DB, owner string, id int64) error {
	err := s.inner.DeleteTask(db, owner, id)
	if err == nil {
		_ = s.cache.DeletePattern(ownerPattern(owner))
	}
	return err
}

func (s *CachedTaskService) ToggleTaskCompletion(db *gorm.DB, owner string, id int64) (models.Task, error) {
	task, err := s.inner.ToggleTaskCompletion(db, owner, id)
	if err == nil {
		_ = s.cache.DeletePattern(ownerPattern(owner))
	}
	return task, err
}
