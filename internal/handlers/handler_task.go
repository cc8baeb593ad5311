package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/business_management_app/internal/core/domain"
	portssvc "github.com/SscSPs/business_management_app/internal/core/ports/services"
	"github.com/SscSPs/business_management_app/internal/dto"
	"github.com/SscSPs/business_management_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// taskHandler handles HTTP requests related to tasks.
type taskHandler struct {
	taskService portssvc.TaskSvcFacade
	now         func() time.Time
}

func newTaskHandler(ts portssvc.TaskSvcFacade) *taskHandler {
	return &taskHandler{
		taskService: ts,
		now:         time.Now,
	}
}

// registerTaskRoutes registers all task-related routes. Workers reach the
// read and lifecycle routes; the service filters what they may see.
func registerTaskRoutes(rg *gin.RouterGroup, taskService portssvc.TaskSvcFacade) {
	h := newTaskHandler(taskService)

	tasks := rg.Group("/tasks")
	{
		tasks.GET("", h.listTasks)
		tasks.POST("", middleware.RequireStaff(), h.createTask)
		tasks.GET("/urgent", h.listUrgent)
		tasks.GET("/stats", middleware.RequireStaff(), h.getStats)
		tasks.POST("/sweep", middleware.RequireAdmin(), h.sweep)
		tasks.POST("/archive", middleware.RequireAdmin(), h.archiveFinished)
		tasks.POST("/admin", middleware.RequireAdmin(), h.createAdminTask)

		tasks.GET("/:id", h.getTask)
		tasks.PUT("/:id", middleware.RequireStaff(), h.updateTask)
		tasks.GET("/:id/related", h.getRelated)
		tasks.POST("/:id/start", h.startTask)
		tasks.POST("/:id/complete", h.completeTask)
		tasks.POST("/:id/approve", middleware.RequireAdmin(), h.approveCompletion)
		tasks.POST("/:id/cancel", middleware.RequireStaff(), h.cancelTask)
		tasks.POST("/:id/archive", middleware.RequireAdmin(), h.archiveTask)

		tasks.POST("/:id/admin-approve", middleware.RequireAdmin(), h.approveAdminTask)
		tasks.POST("/:id/admin-complete", middleware.RequireAdmin(), h.completeAdminTask)
		tasks.POST("/:id/final-approve", middleware.RequireAdmin(), h.finalApproveAdminTask)

		tasks.POST("/:id/suspend", h.requestSuspension)
		tasks.POST("/:id/suspension/approve", middleware.RequireAdmin(), h.approveSuspension)
		tasks.POST("/:id/resume", h.resumeTask)
	}
}

func (h *taskHandler) respondTask(c *gin.Context, status int, task *domain.Task) {
	c.JSON(status, dto.ToTaskResponse(*task, h.now()))
}

// listTasks godoc
// @Summary List tasks
// @Description Runs the reminder sweep, then lists the tasks visible to the caller.
// @Tags tasks
// @Produce  json
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Pagination token"
// @Param   status query []string false "Status filter" collectionFormat(multi)
// @Param   priority query string false "Priority filter"
// @Param   taskType query string false "Type filter"
// @Param   taskScope query string false "Scope filter"
// @Param   workerID query string false "Worker filter"
// @Param   assignedTo query string false "Assignee filter"
// @Param   includeArchived query bool false "Include archived tasks"
// @Param   overdue query bool false "Only overdue tasks"
// @Success 200 {object} dto.ListTasksResponse
// @Security BearerAuth
// @Router /tasks [get]
func (h *taskHandler) listTasks(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var params dto.ListTasksParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, err)
		return
	}
	resp, err := h.taskService.ListTasks(c.Request.Context(), actor, params)
	if err != nil {
		respondWithError(c, err, "Failed to list tasks")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// createTask godoc
// @Summary Create a task
// @Tags tasks
// @Accept  json
// @Produce  json
// @Param   task body dto.CreateTaskRequest true "Task"
// @Success 201 {object} dto.TaskResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /tasks [post]
func (h *taskHandler) createTask(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	task, err := h.taskService.CreateTask(c.Request.Context(), actor, req)
	if err != nil {
		respondWithError(c, err, "Failed to create task")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Task created", slog.String("task_id", task.TaskID))
	h.respondTask(c, http.StatusCreated, task)
}

// createAdminTask godoc
// @Summary Create an admin task
// @Description The task needs an admin approval before work and a final approval after completion.
// @Tags tasks
// @Accept  json
// @Produce  json
// @Param   task body dto.CreateAdminTaskRequest true "Task"
// @Success 201 {object} dto.TaskResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /tasks/admin [post]
func (h *taskHandler) createAdminTask(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.CreateAdminTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	task, err := h.taskService.CreateAdminTask(c.Request.Context(), actor, req)
	if err != nil {
		respondWithError(c, err, "Failed to create admin task")
		return
	}
	h.respondTask(c, http.StatusCreated, task)
}

// getTask godoc
// @Summary Get a task
// @Tags tasks
// @Produce  json
// @Param   id path string true "Task ID"
// @Success 200 {object} dto.TaskResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id} [get]
func (h *taskHandler) getTask(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	task, err := h.taskService.GetTask(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve task")
		return
	}
	h.respondTask(c, http.StatusOK, task)
}

// updateTask godoc
// @Summary Update a task
// @Tags tasks
// @Accept  json
// @Produce  json
// @Param   id path string true "Task ID"
// @Param   task body dto.UpdateTaskRequest true "Fields to change"
// @Success 200 {object} dto.TaskResponse
// @Failure 409 {object} ErrorResponse "Stale version"
// @Security BearerAuth
// @Router /tasks/{id} [put]
func (h *taskHandler) updateTask(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	task, err := h.taskService.UpdateTask(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		respondWithError(c, err, "Failed to update task")
		return
	}
	h.respondTask(c, http.StatusOK, task)
}

// getRelated godoc
// @Summary Resolve a task's related entity
// @Tags tasks
// @Produce  json
// @Param   id path string true "Task ID"
// @Success 200 {object} domain.ResolvedEntity
// @Failure 404 {object} ErrorResponse "No related entity or it no longer exists"
// @Security BearerAuth
// @Router /tasks/{id}/related [get]
func (h *taskHandler) getRelated(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	entity, err := h.taskService.GetRelatedEntity(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondWithError(c, err, "Failed to resolve related entity")
		return
	}
	c.JSON(http.StatusOK, entity)
}

// listUrgent godoc
// @Summary Urgent tasks
// @Description Open high and critical tasks ordered by priority, then due date.
// @Tags tasks
// @Produce  json
// @Param   limit query int false "Maximum number of tasks" default(10)
// @Success 200 {array} dto.TaskResponse
// @Security BearerAuth
// @Router /tasks/urgent [get]
func (h *taskHandler) listUrgent(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	tasks, err := h.taskService.ListUrgentTasks(c.Request.Context(), actor, queryInt(c, "limit", 10))
	if err != nil {
		respondWithError(c, err, "Failed to list urgent tasks")
		return
	}
	c.JSON(http.StatusOK, dto.ToTaskResponses(tasks, h.now()))
}

// getStats godoc
// @Summary Task counters
// @Tags tasks
// @Produce  json
// @Success 200 {object} domain.TaskStats
// @Security BearerAuth
// @Router /tasks/stats [get]
func (h *taskHandler) getStats(c *gin.Context) {
	stats, err := h.taskService.GetTaskStats(c.Request.Context())
	if err != nil {
		respondWithError(c, err, "Failed to compute task stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// sweep godoc
// @Summary Generate reminder tasks
// @Description Creates tasks for overdue debts, stalled orders and idle workers. Safe to repeat.
// @Tags tasks
// @Produce  json
// @Success 200 {object} domain.SweepResult
// @Security BearerAuth
// @Router /tasks/sweep [post]
func (h *taskHandler) sweep(c *gin.Context) {
	result, err := h.taskService.GenerateAutoTasks(c.Request.Context())
	if err != nil {
		respondWithError(c, err, "Failed to generate tasks")
		return
	}
	c.JSON(http.StatusOK, result)
}

// archiveFinished godoc
// @Summary Archive finished tasks
// @Description Archives completed and cancelled tasks that are not waiting for approval.
// @Tags tasks
// @Produce  json
// @Success 200 {object} map[string]int64
// @Security BearerAuth
// @Router /tasks/archive [post]
func (h *taskHandler) archiveFinished(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	n, err := h.taskService.ArchiveFinishedTasks(c.Request.Context(), actor)
	if err != nil {
		respondWithError(c, err, "Failed to archive tasks")
		return
	}
	c.JSON(http.StatusOK, gin.H{"archived": n})
}

// taskAction runs a single-task transition and writes the result.
func (h *taskHandler) taskAction(c *gin.Context, fallback string, fn func(actor domain.Actor, taskID string) (*domain.Task, error)) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	task, err := fn(actor, c.Param("id"))
	if err != nil {
		respondWithError(c, err, fallback)
		return
	}
	h.respondTask(c, http.StatusOK, task)
}

// startTask godoc
// @Summary Start a task
// @Tags tasks
// @Produce  json
// @Param   id path string true "Task ID"
// @Success 200 {object} dto.TaskResponse
// @Failure 409 {object} ErrorResponse "Task is not pending"
// @Security BearerAuth
// @Router /tasks/{id}/start [post]
func (h *taskHandler) startTask(c *gin.Context) {
	h.taskAction(c, "Failed to start task", func(actor domain.Actor, id string) (*domain.Task, error) {
		return h.taskService.StartTask(c.Request.Context(), actor, id)
	})
}

// completeTask godoc
// @Summary Complete a task
// @Description Worker tasks wait for management approval once completed.
// @Tags tasks
// @Accept  json
// @Produce  json
// @Param   id path string true "Task ID"
// @Param   completion body dto.CompleteTaskRequest false "Completion notes"
// @Success 200 {object} dto.TaskResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id}/complete [post]
func (h *taskHandler) completeTask(c *gin.Context) {
	var req dto.CompleteTaskRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
	}
	h.taskAction(c, "Failed to complete task", func(actor domain.Actor, id string) (*domain.Task, error) {
		return h.taskService.CompleteTask(c.Request.Context(), actor, id, req.Notes)
	})
}

// approveCompletion godoc
// @Summary Approve a completed task
// @Tags tasks
// @Produce  json
// @Param   id path string true "Task ID"
// @Success 200 {object} dto.TaskResponse
// @Failure 409 {object} ErrorResponse "Task is not waiting for approval"
// @Security BearerAuth
// @Router /tasks/{id}/approve [post]
func (h *taskHandler) approveCompletion(c *gin.Context) {
	h.taskAction(c, "Failed to approve task", func(actor domain.Actor, id string) (*domain.Task, error) {
		return h.taskService.ApproveTaskCompletion(c.Request.Context(), actor, id)
	})
}

// cancelTask godoc
// @Summary Cancel a task
// @Tags tasks
// @Produce  json
// @Param   id path string true "Task ID"
// @Success 200 {object} dto.TaskResponse
// @Security BearerAuth
// @Router /tasks/{id}/cancel [post]
func (h *taskHandler) cancelTask(c *gin.Context) {
	h.taskAction(c, "Failed to cancel task", func(actor domain.Actor, id string) (*domain.Task, error) {
		return h.taskService.CancelTask(c.Request.Context(), actor, id)
	})
}

// archiveTask godoc
// @Summary Archive a finished task
// @Tags tasks
// @Produce  json
// @Param   id path string true "Task ID"
// @Success 200 {object} dto.TaskResponse
// @Security BearerAuth
// @Router /tasks/{id}/archive [post]
func (h *taskHandler) archiveTask(c *gin.Context) {
	h.taskAction(c, "Failed to archive task", func(actor domain.Actor, id string) (*domain.Task, error) {
		return h.taskService.ArchiveTask(c.Request.Context(), actor, id)
	})
}

// approveAdminTask godoc
// @Summary Approve an admin task for work
// @Tags tasks
// @Produce  json
// @Param   id path string true "Task ID"
// @Success 200 {object} dto.TaskResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id}/admin-approve [post]
func (h *taskHandler) approveAdminTask(c *gin.Context) {
	h.taskAction(c, "Failed to approve admin task", func(actor domain.Actor, id string) (*domain.Task, error) {
		return h.taskService.ApproveAdminTask(c.Request.Context(), actor, id)
	})
}

// completeAdminTask godoc
// @Summary Complete an approved admin task
// @Tags tasks
// @Accept  json
// @Produce  json
// @Param   id path string true "Task ID"
// @Param   completion body dto.CompleteTaskRequest false "Completion notes"
// @Success 200 {object} dto.TaskResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id}/admin-complete [post]
func (h *taskHandler) completeAdminTask(c *gin.Context) {
	var req dto.CompleteTaskRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
	}
	h.taskAction(c, "Failed to complete admin task", func(actor domain.Actor, id string) (*domain.Task, error) {
		return h.taskService.CompleteAdminTask(c.Request.Context(), actor, id, req.Notes)
	})
}

// finalApproveAdminTask godoc
// @Summary Final approval of an admin task
// @Description Closes and archives a completed admin task.
// @Tags tasks
// @Produce  json
// @Param   id path string true "Task ID"
// @Success 200 {object} dto.TaskResponse
// @Failure 403 {object} ErrorResponse "Approver must differ from completer"
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id}/final-approve [post]
func (h *taskHandler) finalApproveAdminTask(c *gin.Context) {
	h.taskAction(c, "Failed to approve admin task", func(actor domain.Actor, id string) (*domain.Task, error) {
		return h.taskService.FinalApproveAdminTask(c.Request.Context(), actor, id)
	})
}

// requestSuspension godoc
// @Summary Request a task suspension
// @Description Suspends an in-progress worker task and opens a review task for management.
// @Tags tasks
// @Accept  json
// @Produce  json
// @Param   id path string true "Task ID"
// @Param   suspension body dto.SuspendTaskRequest true "Reason"
// @Success 200 {object} domain.SuspensionResult
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id}/suspend [post]
func (h *taskHandler) requestSuspension(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.SuspendTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	result, err := h.taskService.RequestSuspension(c.Request.Context(), actor, c.Param("id"), req.Reason)
	if err != nil {
		respondWithError(c, err, "Failed to suspend task")
		return
	}
	c.JSON(http.StatusOK, result)
}

// approveSuspension godoc
// @Summary Approve a suspension request
// @Tags tasks
// @Produce  json
// @Param   id path string true "Suspended task ID"
// @Success 200 {object} dto.TaskResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id}/suspension/approve [post]
func (h *taskHandler) approveSuspension(c *gin.Context) {
	h.taskAction(c, "Failed to approve suspension", func(actor domain.Actor, id string) (*domain.Task, error) {
		return h.taskService.ApproveSuspension(c.Request.Context(), actor, id)
	})
}

// resumeTask godoc
// @Summary Resume a suspended task
// @Tags tasks
// @Produce  json
// @Param   id path string true "Task ID"
// @Success 200 {object} dto.TaskResponse
// @Failure 409 {object} ErrorResponse "Task is not suspended"
// @Security BearerAuth
// @Router /tasks/{id}/resume [post]
func (h *taskHandler) resumeTask(c *gin.Context) {
	h.taskAction(c, "Failed to resume task", func(actor domain.Actor, id string) (*domain.Task, error) {
		return h.taskService.ResumeTask(c.Request.Context(), actor, id)
	})
}
