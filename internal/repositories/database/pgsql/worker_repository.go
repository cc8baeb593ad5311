package pgsql

import (
	"context"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/SscSPs/business_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/business_management_app/internal/core/ports/repositories"
	"github.com/SscSPs/business_management_app/internal/models"
	"github.com/SscSPs/business_management_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
)

var workerColumns = []string{
	"worker_id", "name", "phone", "address", "id_card", "start_date", "monthly_salary", "absences",
	"outside_work_days", "outside_work_bonus", "advances", "incentives", "late_hours", "is_active",
	"username", "password_hash", "last_login",
	"created_at", "created_by", "last_updated_at", "last_updated_by", "version",
}

var monthlyRecordColumns = []string{
	"record_id", "worker_id", "year", "month", "total_salary", "advances", "absences", "late_hours",
	"outside_work_days", "outside_work_bonus", "incentives", "paid_amount", "notes", "recorded_by", "created_at",
}

var evaluationColumns = []string{
	"evaluation_id", "worker_id", "order_id", "quality", "timing", "accuracy", "efficiency",
	"total_score", "bonus_amount", "penalty_amount", "notes", "evaluated_by", "created_at",
}

type PgxWorkerRepository struct {
	BaseRepository
}

func newPgxWorkerRepository(pool *pgxpool.Pool) portsrepo.WorkerRepositoryFacade {
	return &PgxWorkerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.WorkerRepositoryFacade = (*PgxWorkerRepository)(nil)

func (r *PgxWorkerRepository) findOne(ctx context.Context, b sq.SelectBuilder) (*domain.Worker, error) {
	m, err := collectOne[models.Worker](ctx, r.db(ctx), b, "worker")
	if err != nil {
		return nil, err
	}
	d := mapping.ToDomainWorker(*m)
	return &d, nil
}

func (r *PgxWorkerRepository) FindWorkerByID(ctx context.Context, workerID string) (*domain.Worker, error) {
	return r.findOne(ctx, psql.Select(workerColumns...).From("workers").Where(sq.Eq{"worker_id": workerID}))
}

func (r *PgxWorkerRepository) FindWorkerByIDForUpdate(ctx context.Context, workerID string) (*domain.Worker, error) {
	return r.findOne(ctx, psql.Select(workerColumns...).From("workers").Where(sq.Eq{"worker_id": workerID}).Suffix("FOR UPDATE"))
}

func (r *PgxWorkerRepository) FindWorkerByUsername(ctx context.Context, username string) (*domain.Worker, error) {
	return r.findOne(ctx, psql.Select(workerColumns...).From("workers").Where(sq.Eq{"username": username}))
}

func (r *PgxWorkerRepository) ListWorkers(ctx context.Context, includeInactive bool) ([]domain.Worker, error) {
	b := psql.Select(workerColumns...).From("workers").OrderBy("name")
	if !includeInactive {
		b = b.Where(sq.Eq{"is_active": true})
	}
	ms, err := collectAll[models.Worker](ctx, r.db(ctx), b, "workers")
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainWorkerSlice(ms), nil
}

func (r *PgxWorkerRepository) ListIdleWorkers(ctx context.Context) ([]domain.Worker, error) {
	b := psql.Select(workerColumns...).From("workers w").
		Where(sq.Eq{"w.is_active": true}).
		Where(sq.Gt{"w.monthly_salary": 0}).
		Where("NOT EXISTS (SELECT 1 FROM order_assignments a WHERE a.worker_id = w.worker_id AND a.is_active)").
		OrderBy("w.name")
	ms, err := collectAll[models.Worker](ctx, r.db(ctx), b, "idle workers")
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainWorkerSlice(ms), nil
}

func (r *PgxWorkerRepository) SaveWorker(ctx context.Context, worker domain.Worker) error {
	m := mapping.ToModelWorker(worker)
	_, err := execBuilt(ctx, r.db(ctx), psql.Insert("workers").
		Columns(workerColumns...).
		Values(m.WorkerID, m.Name, m.Phone, m.Address, m.IDCard, m.StartDate, m.MonthlySalary, m.Absences,
			m.OutsideWorkDays, m.OutsideWorkBonus, m.Advances, m.Incentives, m.LateHours, m.IsActive,
			m.Username, m.PasswordHash, m.LastLogin,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy, m.Version), "worker")
	return err
}

func (r *PgxWorkerRepository) UpdateWorker(ctx context.Context, worker *domain.Worker) error {
	m := mapping.ToModelWorker(*worker)
	tag, err := execBuilt(ctx, r.db(ctx), psql.Update("workers").
		Set("name", m.Name).
		Set("phone", m.Phone).
		Set("address", m.Address).
		Set("id_card", m.IDCard).
		Set("start_date", m.StartDate).
		Set("monthly_salary", m.MonthlySalary).
		Set("absences", m.Absences).
		Set("outside_work_days", m.OutsideWorkDays).
		Set("outside_work_bonus", m.OutsideWorkBonus).
		Set("advances", m.Advances).
		Set("incentives", m.Incentives).
		Set("late_hours", m.LateHours).
		Set("is_active", m.IsActive).
		Set("username", m.Username).
		Set("password_hash", m.PasswordHash).
		Set("last_login", m.LastLogin).
		Set("last_updated_at", m.LastUpdatedAt).
		Set("last_updated_by", m.LastUpdatedBy).
		Set("version", sq.Expr("version + 1")).
		Where(sq.Eq{"worker_id": m.WorkerID, "version": m.Version}), "worker")
	if err != nil {
		return err
	}
	if err := r.checkVersionedUpdate(ctx, tag, "workers", "worker_id", m.WorkerID, "worker"); err != nil {
		return err
	}
	worker.Version++
	return nil
}

func (r *PgxWorkerRepository) SaveEvaluation(ctx context.Context, evaluation domain.WorkerEvaluation) error {
	m := mapping.ToModelWorkerEvaluation(evaluation)
	_, err := execBuilt(ctx, r.db(ctx), psql.Insert("worker_evaluations").
		Columns(evaluationColumns...).
		Values(m.EvaluationID, m.WorkerID, m.OrderID, m.Quality, m.Timing, m.Accuracy, m.Efficiency,
			m.TotalScore, m.BonusAmount, m.PenaltyAmount, m.Notes, m.EvaluatedBy, m.CreatedAt), "worker evaluation")
	return err
}

func (r *PgxWorkerRepository) ListEvaluations(ctx context.Context, workerID string) ([]domain.WorkerEvaluation, error) {
	b := psql.Select(evaluationColumns...).From("worker_evaluations").
		Where(sq.Eq{"worker_id": workerID}).
		OrderBy("created_at DESC")
	ms, err := collectAll[models.WorkerEvaluation](ctx, r.db(ctx), b, "worker evaluations")
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainWorkerEvaluationSlice(ms), nil
}

// SaveMonthlyRecord upserts on uq_worker_month. A repeated payment in the same
// month only accumulates the paid amount and replaces the notes.
func (r *PgxWorkerRepository) SaveMonthlyRecord(ctx context.Context, record domain.WorkerMonthlyRecord) (*domain.WorkerMonthlyRecord, error) {
	m := mapping.ToModelWorkerMonthlyRecord(record)
	b := psql.Insert("worker_monthly_records").
		Columns(monthlyRecordColumns...).
		Values(m.RecordID, m.WorkerID, m.Year, m.Month, m.TotalSalary, m.Advances, m.Absences, m.LateHours,
			m.OutsideWorkDays, m.OutsideWorkBonus, m.Incentives, m.PaidAmount, m.Notes, m.RecordedBy, m.CreatedAt).
		Suffix(`ON CONFLICT ON CONSTRAINT uq_worker_month DO UPDATE SET
			paid_amount = worker_monthly_records.paid_amount + EXCLUDED.paid_amount,
			notes = EXCLUDED.notes
		RETURNING ` + strings.Join(monthlyRecordColumns, ", "))
	stored, err := collectOne[models.WorkerMonthlyRecord](ctx, r.db(ctx), b, "worker monthly record")
	if err != nil {
		return nil, err
	}
	d := mapping.ToDomainWorkerMonthlyRecord(*stored)
	return &d, nil
}

func (r *PgxWorkerRepository) ListMonthlyRecords(ctx context.Context, workerID string) ([]domain.WorkerMonthlyRecord, error) {
	b := psql.Select(monthlyRecordColumns...).From("worker_monthly_records").
		Where(sq.Eq{"worker_id": workerID}).
		OrderBy("year DESC", "month DESC")
	ms, err := collectAll[models.WorkerMonthlyRecord](ctx, r.db(ctx), b, "worker monthly records")
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainWorkerMonthlyRecordSlice(ms), nil
}
