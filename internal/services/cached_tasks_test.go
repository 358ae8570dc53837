package services_test

import (
	"testing"

	"todo-api/backend/internal/cache"
	"todo-api/backend/internal/services"
)

func TestCachedTaskService_ListServedFromCache(t *testing.T) {
	db := setupTestDB(t)
	svc := services.NewCachedTaskService(services.NewTaskService(), cache.NewMemoryCache())

	created, err := svc.CreateTask(db, "u1", "cached", nil)
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	first, err := svc.ListTasks(db, "u1", services.FilterAll)
	if err != nil {
		t.Fatalf("First list failed: %v", err)
	}
	if len(first) != 1 || first[0].ID != created.ID {
		t.Fatalf("Unexpected first list: %v", first)
	}

	// Write around the decorator; the cached result must still be served.
	if err := services.NewTaskService().DeleteTask(db, "u1", created.ID); err != nil {
		t.Fatalf("Direct delete failed: %v", err)
	}

	second, err := svc.ListTasks(db, "u1", services.FilterAll)
	if err != nil {
		t.Fatalf("Second list failed: %v", err)
	}
	if len(second) != 1 {
		t.Errorf("Expected cached list of 1 task, got %d", len(second))
	}
}

func TestCachedTaskService_MutationsInvalidate(t *testing.T) {
	db := setupTestDB(t)
	svc := services.NewCachedTaskService(services.NewTaskService(), cache.NewMemoryCache())

	task, err := svc.CreateTask(db, "u1", "original", nil)
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	// Prime both the list and the single-task cache entries.
	if _, err := svc.ListTasks(db, "u1", services.FilterAll); err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if _, err := svc.GetTaskByID(db, "u1", task.ID); err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if _, err := svc.UpdateTask(db, "u1", task.ID, services.TaskUpdates{Title: strPtr("renamed")}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	fetched, err := svc.GetTaskByID(db, "u1", task.ID)
	if err != nil {
		t.Fatalf("Get after update failed: %v", err)
	}
	if fetched.Title != "renamed" {
		t.Errorf("Cache served stale title %q after update", fetched.Title)
	}

	listed, err := svc.ListTasks(db, "u1", services.FilterAll)
	if err != nil {
		t.Fatalf("List after update failed: %v", err)
	}
	if len(listed) != 1 || listed[0].Title != "renamed" {
		t.Errorf("List served stale data after update: %v", listed)
	}
}

func TestCachedTaskService_OwnersDoNotShareEntries(t *testing.T) {
	db := setupTestDB(t)
	svc := services.NewCachedTaskService(services.NewTaskService(), cache.NewMemoryCache())

	if _, err := svc.CreateTask(db, "u1", "mine", nil); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	if _, err := svc.ListTasks(db, "u1", services.FilterAll); err != nil {
		t.Fatalf("u1 list failed: %v", err)
	}

	other, err := svc.ListTasks(db, "u2", services.FilterAll)
	if err != nil {
		t.Fatalf("u2 list failed: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("u2 received u1's cached tasks: %v", other)
	}
}
