package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"todo-api/backend/internal/services"
	"todo-api/backend/internal/validation"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type TaskHandler struct {
	db          *gorm.DB
	taskService services.TaskService
}

func NewTaskHandler(db *gorm.DB, taskService services.TaskService) *TaskHandler {
	return &TaskHandler{db: db, taskService: taskService}
}

func (h *TaskHandler) ListTasks(c *gin.Context) {
	owner := c.Param("user_id")
	filter := services.ParseTaskFilter(c.DefaultQuery("filter_status", "all"))

	tasks, err := h.taskService.ListTasks(h.db, owner, filter)
	if err != nil {
		handleTaskError(c, err)
		return
	}
	respondOK(c, http.StatusOK, tasks)
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	owner := c.Param("user_id")

	var input struct {
		Title       string  `json:"title"`
		Description *string `json:"description"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if errs := validation.ValidateCreate(input.Title, input.Description); len(errs) > 0 {
		respondValidationError(c, errs)
		return
	}

	task, err := h.taskService.CreateTask(h.db, owner, input.Title, input.Description)
	if err != nil {
		handleTaskError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, task)
}

func (h *TaskHandler) GetTaskByID(c *gin.Context) {
	owner := c.Param("user_id")
	id, ok := parseTaskID(c)
	if !ok {
		return
	}

	task, err := h.taskService.GetTaskByID(h.db, owner, id)
	if err != nil {
		handleTaskError(c, err)
		return
	}
	respondOK(c, http.StatusOK, task)
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	owner := c.Param("user_id")
	id, ok := parseTaskID(c)
	if !ok {
		return
	}

	var input struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if errs := validation.ValidateUpdate(input.Title, input.Description); len(errs) > 0 {
		respondValidationError(c, errs)
		return
	}

	task, err := h.taskService.UpdateTask(h.db, owner, id, services.TaskUpdates{
		Title:       input.Title,
		Description: input.Description,
	})
	if err != nil {
		handleTaskError(c, err)
		return
	}
	respondOK(c, http.StatusOK, task)
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	owner := c.Param("user_id")
	id, ok := parseTaskID(c)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(h.db, owner, id); err != nil {
		handleTaskError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

func (h *TaskHandler) ToggleTaskCompletion(c *gin.Context) {
	owner := c.Param("user_id")
	id, ok := parseTaskID(c)
	if !ok {
		return
	}

	task, err := h.taskService.ToggleTaskCompletion(h.db, owner, id)
	if err != nil {
		handleTaskError(c, err)
		return
	}
	respondOK(c, http.StatusOK, task)
}

// parseTaskID reads the task_id path parameter. A non-numeric id can never
// name an existing task, so it reports the same 404 a missing row would.
func parseTaskID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("task_id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusNotFound, "Task not found")
		return 0, false
	}
	return id, true
}

func handleTaskError(c *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(c, http.StatusNotFound, "Task not found")
		return
	}
	respondError(c, http.StatusInternalServerError, "failed to process task request")
}
