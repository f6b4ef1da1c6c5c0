package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"tasks-api/internal/models"
	"tasks-api/internal/services"

	"github.com/gin-gonic/gin"
)

const (
	msgTitleRequired    = "Title is required and must be a string."
	msgColorRequired    = "Color is required and must be a string."
	msgCompletedInvalid = "Completed must be a boolean."
	msgInvalidBody      = "Invalid request body."

	msgListFailed   = "Something went wrong, please try again later."
	msgGetFailed    = "Something went wrong, could not find the task!"
	msgCreateFailed = "Could not create the task, please try again!"
	msgUpdateFailed = "Could not update the task, please try again!"
	msgDeleteFailed = "Could not delete the task, please try again!"

	msgUpdated = "Task successfully updated!"
	msgDeleted = "Task successfully deleted!"
)

type TaskHandler struct {
	taskService services.TaskService
}

func NewTaskHandler(taskService services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// HandlerFunc is a gin handler that reports failure by returning an error.
type HandlerFunc func(c *gin.Context) error

// Wrap forwards a returned error to the error responder middleware.
func Wrap(fn HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := fn(c); err != nil {
			_ = c.Error(err)
			c.Abort()
		}
	}
}

func (h *TaskHandler) GetTasks(c *gin.Context) error {
	page := queryPositiveInt(c, "page", services.DefaultPage)
	pageSize := queryPositiveInt(c, "pageSize", services.DefaultPageSize)

	result, err := h.taskService.ListTasks(c.Request.Context(), page, pageSize)
	if err != nil {
		return models.InternalError(msgListFailed, err)
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks":     result.Tasks,
		"total":     result.Total,
		"completed": result.Completed,
	})
	return nil
}

func (h *TaskHandler) GetTaskByID(c *gin.Context) error {
	task, err := h.taskService.GetTaskByID(c.Request.Context(), c.Param("taskId"))
	if err != nil {
		return models.InternalError(msgGetFailed, err)
	}

	c.JSON(http.StatusOK, gin.H{"data": task})
	return nil
}

func (h *TaskHandler) CreateTask(c *gin.Context) error {
	var req createTaskRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if err := req.validate(); err != nil {
		return err
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), req.Title.Value, req.Color.Value)
	if err != nil {
		return models.InternalError(msgCreateFailed, err)
	}

	c.JSON(http.StatusCreated, gin.H{"data": task})
	return nil
}

func (h *TaskHandler) UpdateTask(c *gin.Context) error {
	var req updateTaskRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if err := req.validate(); err != nil {
		return err
	}

	err := h.taskService.UpdateTask(c.Request.Context(), c.Param("taskId"), req.changes())
	if err != nil {
		return models.InternalError(msgUpdateFailed, err)
	}

	c.JSON(http.StatusOK, gin.H{"message": msgUpdated})
	return nil
}

func (h *TaskHandler) DeleteTask(c *gin.Context) error {
	if err := h.taskService.DeleteTask(c.Request.Context(), c.Param("taskId")); err != nil {
		return models.InternalError(msgDeleteFailed, err)
	}

	c.JSON(http.StatusOK, gin.H{"message": msgDeleted})
	return nil
}

// bindJSON decodes the body into obj. An empty body decodes as {}.
func bindJSON(c *gin.Context, obj interface{}) error {
	if c.Request.Body == nil || c.Request.Body == http.NoBody {
		return nil
	}
	if err := c.ShouldBindJSON(obj); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return models.BadRequest(msgInvalidBody).Wrap(err)
	}
	return nil
}

// queryPositiveInt falls back to def for missing, non-numeric and non-positive values.
func queryPositiveInt(c *gin.Context, key string, def int) int {
	value, err := strconv.Atoi(c.DefaultQuery(key, strconv.Itoa(def)))
	if err != nil || value < 1 {
		return def
	}
	return value
}
