package pgsql

import (
	"context"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/SscSPs/business_management_app/internal/apperrors"
	"github.com/SscSPs/business_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/business_management_app/internal/core/ports/repositories"
	"github.com/SscSPs/business_management_app/internal/models"
	"github.com/SscSPs/business_management_app/internal/utils/mapping"
	"github.com/SscSPs/business_management_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5/pgxpool"
)

var taskColumns = []string{
	"task_id", "title", "description", "priority", "status", "task_type", "task_scope", "visibility_scope",
	"assigned_to", "worker_id", "due_date", "related_entity_type", "related_entity_id", "auto_generated",
	"completed_at", "notes", "completion_notes", "assignment_type",
	"waiting_approval", "approved_by", "approval_date",
	"admin_approval_required", "admin_approved", "admin_approved_by", "admin_approval_date",
	"suspension_requested", "suspension_reason", "suspension_approved", "archived",
	"created_at", "created_by", "last_updated_at", "last_updated_by", "version",
}

const (
	syncTaskConflict = `(worker_id, related_entity_type, related_entity_id)
		WHERE task_type = 'order_completion' AND status IN ('pending', 'in_progress', 'suspended') AND NOT archived`
	autoTaskConflict = `(related_entity_type, related_entity_id)
		WHERE auto_generated AND status IN ('pending', 'in_progress') AND NOT archived`
)

func taskValues(m models.Task) []any {
	return []any{
		m.TaskID, m.Title, m.Description, m.Priority, m.Status, m.TaskType, m.TaskScope, m.VisibilityScope,
		m.AssignedTo, m.WorkerID, m.DueDate, m.RelatedEntityType, m.RelatedEntityID, m.AutoGenerated,
		m.CompletedAt, m.Notes, m.CompletionNotes, m.AssignmentType,
		m.WaitingApproval, m.ApprovedBy, m.ApprovalDate,
		m.AdminApprovalRequired, m.AdminApproved, m.AdminApprovedBy, m.AdminApprovalDate,
		m.SuspensionRequested, m.SuspensionReason, m.SuspensionApproved, m.Archived,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy, m.Version,
	}
}

func openStatusValues() []string {
	out := make([]string, len(domain.OpenTaskStatuses))
	for i, s := range domain.OpenTaskStatuses {
		out[i] = string(s)
	}
	return out
}

type PgxTaskRepository struct {
	BaseRepository
}

func newPgxTaskRepository(pool *pgxpool.Pool) portsrepo.TaskRepositoryFacade {
	return &PgxTaskRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TaskRepositoryFacade = (*PgxTaskRepository)(nil)

func selectTasks() sq.SelectBuilder {
	return psql.Select(taskColumns...).From("tasks")
}

func (r *PgxTaskRepository) findOne(ctx context.Context, b sq.SelectBuilder) (*domain.Task, error) {
	m, err := collectOne[models.Task](ctx, r.db(ctx), b, "task")
	if err != nil {
		return nil, err
	}
	d := mapping.ToDomainTask(*m)
	return &d, nil
}

func (r *PgxTaskRepository) FindTaskByID(ctx context.Context, taskID string) (*domain.Task, error) {
	return r.findOne(ctx, selectTasks().Where(sq.Eq{"task_id": taskID}))
}

func (r *PgxTaskRepository) FindTaskByIDForUpdate(ctx context.Context, taskID string) (*domain.Task, error) {
	return r.findOne(ctx, selectTasks().Where(sq.Eq{"task_id": taskID}).Suffix("FOR UPDATE"))
}

func (r *PgxTaskRepository) FindOpenTaskByRelated(ctx context.Context, ref domain.EntityRef, taskType domain.TaskType) (*domain.Task, error) {
	return r.findOne(ctx, selectTasks().
		Where(sq.Eq{
			"related_entity_type": string(ref.Type),
			"related_entity_id":   ref.ID,
			"task_type":           string(taskType),
			"status":              openStatusValues(),
			"archived":            false,
		}).
		OrderBy("created_at DESC").
		Limit(1))
}

// ListTasks pages by (created_at, task_id) descending.
func (r *PgxTaskRepository) ListTasks(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, *string, error) {
	limit := pagination.ClampLimit(filter.Limit, 20, 100)
	b := selectTasks()
	if !filter.IncludeArchived {
		b = b.Where(sq.Eq{"archived": false})
	}
	if !filter.AdminsView {
		b = b.Where(sq.NotEq{"visibility_scope": string(domain.VisibilityAdminsOnly)})
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		b = b.Where(sq.Eq{"status": statuses})
	}
	if filter.Priority != nil {
		b = b.Where(sq.Eq{"priority": string(*filter.Priority)})
	}
	if filter.TaskType != nil {
		b = b.Where(sq.Eq{"task_type": string(*filter.TaskType)})
	}
	if filter.TaskScope != nil {
		b = b.Where(sq.Eq{"task_scope": string(*filter.TaskScope)})
	}
	if filter.WorkerID != nil {
		b = b.Where(sq.Eq{"worker_id": *filter.WorkerID})
	}
	if filter.AssignedTo != nil {
		b = b.Where(sq.Eq{"assigned_to": *filter.AssignedTo})
	}
	if filter.Related != nil {
		b = b.Where(sq.Eq{"related_entity_type": string(filter.Related.Type), "related_entity_id": filter.Related.ID})
	}
	if filter.OnlyOverdue {
		b = b.Where(sq.Lt{"due_date": filter.Now}).
			Where(sq.NotEq{"status": []string{string(domain.TaskCompleted), string(domain.TaskCancelled)}})
	}
	if filter.NextToken != nil && *filter.NextToken != "" {
		createdAt, id, err := pagination.DecodeCursor(*filter.NextToken)
		if err != nil {
			return nil, nil, apperrors.NewBadRequestError("invalid nextToken")
		}
		b = b.Where(sq.Expr("(created_at, task_id) < (?, ?)", createdAt, id))
	}
	b = b.OrderBy("created_at DESC", "task_id DESC").Limit(uint64(limit + 1))

	ms, err := collectAll[models.Task](ctx, r.db(ctx), b, "tasks")
	if err != nil {
		return nil, nil, err
	}
	var next *string
	if len(ms) > limit {
		last := ms[limit-1]
		token := pagination.EncodeCursor(last.CreatedAt, last.TaskID)
		next = &token
		ms = ms[:limit]
	}
	return mapping.ToDomainTaskSlice(ms), next, nil
}

func (r *PgxTaskRepository) ListUrgentTasks(ctx context.Context, limit int) ([]domain.Task, error) {
	if limit <= 0 {
		limit = 10
	}
	b := selectTasks().
		Where(sq.Eq{
			"priority": []string{string(domain.PriorityHigh), string(domain.PriorityCritical)},
			"status":   openStatusValues(),
			"archived": false,
		}).
		OrderBy("CASE priority WHEN 'critical' THEN 0 ELSE 1 END", "due_date ASC NULLS LAST", "created_at ASC").
		Limit(uint64(limit))
	ms, err := collectAll[models.Task](ctx, r.db(ctx), b, "urgent tasks")
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainTaskSlice(ms), nil
}

func (r *PgxTaskRepository) GetTaskStats(ctx context.Context, now time.Time) (*domain.TaskStats, error) {
	query := `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status = 'pending') AS pending,
			COUNT(*) FILTER (WHERE status = 'in_progress') AS in_progress,
			COUNT(*) FILTER (WHERE status = 'suspended') AS suspended,
			COUNT(*) FILTER (WHERE status = 'completed') AS completed,
			COUNT(*) FILTER (WHERE priority IN ('high', 'critical') AND status IN ('pending', 'in_progress')) AS urgent,
			COUNT(*) FILTER (WHERE due_date < $1 AND status NOT IN ('completed', 'cancelled')) AS overdue
		FROM tasks
		WHERE NOT archived;
	`
	rows, err := r.db(ctx).Query(ctx, query, now)
	if err != nil {
		return nil, mapReadError(err, "task stats")
	}
	ms, err := collectRows[models.TaskStats](rows, "task stats")
	if err != nil {
		return nil, err
	}
	stats := &domain.TaskStats{}
	if len(ms) == 1 {
		m := ms[0]
		*stats = domain.TaskStats{
			Total:      m.Total,
			Pending:    m.Pending,
			InProgress: m.InProgress,
			Suspended:  m.Suspended,
			Completed:  m.Completed,
			Urgent:     m.Urgent,
			Overdue:    m.Overdue,
		}
	}
	return stats, nil
}

func (r *PgxTaskRepository) SaveTask(ctx context.Context, task domain.Task) error {
	m := mapping.ToModelTask(task)
	_, err := execBuilt(ctx, r.db(ctx), psql.Insert("tasks").Columns(taskColumns...).Values(taskValues(m)...), "task")
	return err
}

func (r *PgxTaskRepository) UpdateTask(ctx context.Context, task *domain.Task) error {
	m := mapping.ToModelTask(*task)
	b := psql.Update("tasks")
	values := taskValues(m)
	for i, col := range taskColumns {
		switch col {
		case "task_id", "created_at", "created_by", "version":
			continue
		}
		b = b.Set(col, values[i])
	}
	tag, err := execBuilt(ctx, r.db(ctx), b.
		Set("version", sq.Expr("version + 1")).
		Where(sq.Eq{"task_id": m.TaskID, "version": m.Version}), "task")
	if err != nil {
		return err
	}
	if err := r.checkVersionedUpdate(ctx, tag, "tasks", "task_id", m.TaskID, "task"); err != nil {
		return err
	}
	task.Version++
	return nil
}

// upsertedTask is a task row plus whether the upsert inserted it.
type upsertedTask struct {
	models.Task
	Inserted bool `db:"inserted"`
}

// UpsertSyncTask relies on uq_open_sync_task so that concurrent assignments of
// the same worker to the same order end up sharing one live task.
func (r *PgxTaskRepository) UpsertSyncTask(ctx context.Context, task domain.Task) (*domain.Task, bool, error) {
	m := mapping.ToModelTask(task)
	b := psql.Insert("tasks").
		Columns(taskColumns...).
		Values(taskValues(m)...).
		Suffix(`ON CONFLICT ` + syncTaskConflict + ` DO UPDATE SET
			assignment_type = EXCLUDED.assignment_type,
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			due_date = EXCLUDED.due_date,
			notes = EXCLUDED.notes,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by,
			version = tasks.version + 1
		RETURNING ` + strings.Join(taskColumns, ", ") + `, (xmax = 0) AS inserted`)
	row, err := collectOne[upsertedTask](ctx, r.db(ctx), b, "synchronization task")
	if err != nil {
		return nil, false, err
	}
	d := mapping.ToDomainTask(row.Task)
	return &d, row.Inserted, nil
}

// InsertAutoTask skips entities that already have an open task of any kind;
// uq_open_auto_task settles races between concurrent sweeps.
func (r *PgxTaskRepository) InsertAutoTask(ctx context.Context, task domain.Task) (bool, error) {
	if task.Related == nil {
		return false, nil
	}
	query, args, err := psql.Select("1").From("tasks").
		Where(sq.Eq{
			"related_entity_type": string(task.Related.Type),
			"related_entity_id":   task.Related.ID,
			"status":              openStatusValues(),
			"archived":            false,
		}).
		Prefix("SELECT EXISTS (").Suffix(")").
		ToSql()
	if err != nil {
		return false, mapReadError(err, "task")
	}
	var exists bool
	if err := r.db(ctx).QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, mapReadError(err, "task")
	}
	if exists {
		return false, nil
	}

	m := mapping.ToModelTask(task)
	tag, err := execBuilt(ctx, r.db(ctx), psql.Insert("tasks").
		Columns(taskColumns...).
		Values(taskValues(m)...).
		Suffix("ON CONFLICT "+autoTaskConflict+" DO NOTHING"), "auto task")
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *PgxTaskRepository) ArchiveFinishedTasks(ctx context.Context, actorID string, now time.Time) (int64, error) {
	tag, err := execBuilt(ctx, r.db(ctx), psql.Update("tasks").
		Set("archived", true).
		Set("last_updated_at", now).
		Set("last_updated_by", actorID).
		Set("version", sq.Expr("version + 1")).
		Where(sq.Eq{
			"archived":         false,
			"waiting_approval": false,
			"status":           []string{string(domain.TaskCompleted), string(domain.TaskCancelled)},
		}), "tasks")
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *PgxTaskRepository) CancelSyncTasks(ctx context.Context, workerID, orderID, actorID string, now time.Time) (int64, error) {
	statuses := make([]string, len(domain.SyncTaskStatuses))
	for i, st := range domain.SyncTaskStatuses {
		statuses[i] = string(st)
	}
	tag, err := execBuilt(ctx, r.db(ctx), psql.Update("tasks").
		Set("status", string(domain.TaskCancelled)).
		Set("last_updated_at", now).
		Set("last_updated_by", actorID).
		Set("version", sq.Expr("version + 1")).
		Where(sq.Eq{
			"task_type":           string(domain.TaskTypeOrderCompletion),
			"worker_id":           workerID,
			"related_entity_type": string(domain.EntityOrder),
			"related_entity_id":   orderID,
			"status":              statuses,
			"archived":            false,
		}), "tasks")
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
