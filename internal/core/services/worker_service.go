package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/business_management_app/internal/apperrors"
	"github.com/SscSPs/business_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/business_management_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/business_management_app/internal/core/ports/services"
	"github.com/SscSPs/business_management_app/internal/dto"
	"github.com/SscSPs/business_management_app/internal/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type workerService struct {
	BaseService
	txManager      portsrepo.TransactionManager
	workerRepo     portsrepo.WorkerRepositoryFacade
	assignmentRepo portsrepo.AssignmentRepositoryFacade
	taskRepo       portsrepo.TaskWriter
	historyRepo    portsrepo.HistoryRepositoryFacade
}

// NewWorkerService creates the worker service.
func NewWorkerService(base BaseService, repos portsrepo.RepositoryProvider) portssvc.WorkerSvcFacade {
	return &workerService{
		BaseService:    base,
		txManager:      repos.TxManager,
		workerRepo:     repos.WorkerRepo,
		assignmentRepo: repos.AssignmentRepo,
		taskRepo:       repos.TaskRepo,
		historyRepo:    repos.HistoryRepo,
	}
}

var _ portssvc.WorkerSvcFacade = (*workerService)(nil)

func (s *workerService) GetWorker(ctx context.Context, workerID string) (*domain.WorkerDetails, error) {
	worker, err := s.workerRepo.FindWorkerByID(ctx, workerID)
	if err != nil {
		s.LogError(ctx, err, "Failed to find worker", slog.String("worker_id", workerID))
		return nil, err
	}
	assignments, err := s.assignmentRepo.ListActiveAssignmentsByWorker(ctx, workerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list worker assignments: %w", err)
	}
	if assignments == nil {
		assignments = []domain.OrderAssignment{}
	}
	return &domain.WorkerDetails{
		Worker:            *worker,
		TotalSalary:       worker.TotalSalary(s.now()).StringFixed(2),
		ActiveAssignments: assignments,
	}, nil
}

func (s *workerService) ListWorkers(ctx context.Context, includeInactive bool) ([]domain.Worker, error) {
	return s.workerRepo.ListWorkers(ctx, includeInactive)
}

func (s *workerService) ListWorkerHistory(ctx context.Context, workerID string) ([]domain.WorkerHistory, error) {
	return s.historyRepo.ListWorkerHistory(ctx, workerID)
}

func (s *workerService) ListEvaluations(ctx context.Context, workerID string) ([]domain.WorkerEvaluation, error) {
	return s.workerRepo.ListEvaluations(ctx, workerID)
}

func (s *workerService) ListMonthlyRecords(ctx context.Context, workerID string) ([]domain.WorkerMonthlyRecord, error) {
	records, err := s.workerRepo.ListMonthlyRecords(ctx, workerID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list monthly records", slog.String("worker_id", workerID))
		return nil, err
	}
	if records == nil {
		records = []domain.WorkerMonthlyRecord{}
	}
	return records, nil
}

func (s *workerService) CreateWorker(ctx context.Context, actor domain.Actor, req dto.CreateWorkerRequest) (*domain.Worker, error) {
	if err := s.RequireAdmin(ctx, actor, "hire workers"); err != nil {
		return nil, err
	}
	if (req.Username == nil) != (req.Password == nil) {
		return nil, apperrors.NewValidationFailedError("worker credentials need both a username and a password")
	}

	now := s.now()
	worker := domain.Worker{
		WorkerID:         uuid.NewString(),
		Name:             req.Name,
		Phone:            req.Phone,
		Address:          req.Address,
		IDCard:           req.IDCard,
		StartDate:        now,
		MonthlySalary:    domain.RoundMoney(req.MonthlySalary),
		Absences:         decimal.Zero,
		OutsideWorkBonus: decimal.Zero,
		Advances:         decimal.Zero,
		Incentives:       decimal.Zero,
		LateHours:        decimal.Zero,
		IsActive:         true,
		Username:         req.Username,
		AuditFields:      domain.NewAuditFields(actor, now),
	}
	if req.StartDate != nil {
		worker.StartDate = *req.StartDate
	}
	if req.Password != nil {
		hash, err := utils.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash worker password: %w", err)
		}
		worker.PasswordHash = &hash
	}

	err := s.txManager.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.workerRepo.SaveWorker(ctx, worker); err != nil {
			return err
		}
		return s.historyRepo.SaveWorkerHistory(ctx, domain.NewWorkerHistory(worker.WorkerID, domain.ChangeCreated,
			"worker hired", decimal.Zero, actor, now))
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create worker", slog.String("name", req.Name))
		return nil, err
	}
	s.LogInfo(ctx, "Worker created", slog.String("worker_id", worker.WorkerID))
	return &worker, nil
}

func (s *workerService) UpdateWorker(ctx context.Context, actor domain.Actor, workerID string, req dto.UpdateWorkerRequest) (*domain.Worker, error) {
	if err := s.RequireAdmin(ctx, actor, "update workers"); err != nil {
		return nil, err
	}

	var worker *domain.Worker
	err := s.txManager.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		worker, err = s.workerRepo.FindWorkerByIDForUpdate(ctx, workerID)
		if err != nil {
			return err
		}
		if worker.Version != req.Version {
			return apperrors.NewStaleVersionError("worker was modified by someone else, reload and retry")
		}

		applyString(&worker.Name, req.Name)
		applyString(&worker.Phone, req.Phone)
		applyString(&worker.Address, req.Address)
		applyString(&worker.IDCard, req.IDCard)
		if req.StartDate != nil {
			worker.StartDate = *req.StartDate
		}
		if req.MonthlySalary != nil {
			worker.MonthlySalary = domain.RoundMoney(*req.MonthlySalary)
		}
		details := "worker details updated"
		deactivated := false
		if req.IsActive != nil && *req.IsActive != worker.IsActive {
			worker.IsActive = *req.IsActive
			deactivated = !worker.IsActive
			details = "worker deactivated"
			if worker.IsActive {
				details = "worker reactivated"
			}
		}
		if req.Password != nil {
			if worker.Username == nil {
				return apperrors.NewValidationFailedError("worker has no login to set a password for")
			}
			hash, err := utils.HashPassword(*req.Password)
			if err != nil {
				return fmt.Errorf("failed to hash worker password: %w", err)
			}
			worker.PasswordHash = &hash
		}

		now := s.now()
		worker.Touch(actor, now)
		if err := s.workerRepo.UpdateWorker(ctx, worker); err != nil {
			return err
		}
		if err := s.historyRepo.SaveWorkerHistory(ctx, domain.NewWorkerHistory(worker.WorkerID, domain.ChangeUpdated,
			details, decimal.Zero, actor, now)); err != nil {
			return err
		}
		if deactivated {
			return s.releaseAssignments(ctx, actor, worker, now)
		}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to update worker", slog.String("worker_id", workerID))
		return nil, err
	}
	s.invalidate(ctx, cacheKeyTaskStats)
	return worker, nil
}

// releaseAssignments ends every active assignment of a deactivated worker and
// cancels the synchronization task of each.
func (s *workerService) releaseAssignments(ctx context.Context, actor domain.Actor, worker *domain.Worker, now time.Time) error {
	active, err := s.assignmentRepo.ListActiveAssignmentsByWorker(ctx, worker.WorkerID)
	if err != nil {
		return err
	}
	for _, a := range active {
		if err := s.assignmentRepo.DeactivateAssignment(ctx, a.AssignmentID, now); err != nil {
			return err
		}
		if _, err := s.taskRepo.CancelSyncTasks(ctx, worker.WorkerID, a.OrderID, actor.UserID, now); err != nil {
			return err
		}
		if err := s.historyRepo.SaveOrderHistory(ctx, domain.NewOrderHistory(a.OrderID, domain.ChangeAssignmentDeactivated,
			"assignment of "+worker.Name+" ended, worker deactivated", actor, now)); err != nil {
			return err
		}
	}
	if len(active) > 0 {
		s.LogInfo(ctx, "Released assignments of deactivated worker",
			slog.String("worker_id", worker.WorkerID),
			slog.Int("assignments", len(active)))
	}
	return nil
}

var adjustmentLabels = map[domain.AdjustmentKind]string{
	domain.AdjustAdvance:     "salary advance",
	domain.AdjustIncentive:   "incentive",
	domain.AdjustAbsence:     "absence days",
	domain.AdjustLateHours:   "late hours",
	domain.AdjustOutsideWork: "outside work bonus",
}

func (s *workerService) AdjustWorker(ctx context.Context, actor domain.Actor, workerID string, req dto.WorkerAdjustmentRequest) (*domain.Worker, error) {
	if err := s.RequireAdmin(ctx, actor, "adjust worker salaries"); err != nil {
		return nil, err
	}

	var worker *domain.Worker
	err := s.txManager.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		worker, err = s.workerRepo.FindWorkerByIDForUpdate(ctx, workerID)
		if err != nil {
			return err
		}
		if err := worker.Apply(req.Kind, req.Amount); err != nil {
			return err
		}

		now := s.now()
		worker.Touch(actor, now)
		if err := s.workerRepo.UpdateWorker(ctx, worker); err != nil {
			return err
		}
		details := adjustmentLabels[req.Kind]
		if req.Notes != "" {
			details += ": " + req.Notes
		}
		return s.historyRepo.SaveWorkerHistory(ctx, domain.NewWorkerHistory(worker.WorkerID, domain.ChangeAdjustment,
			details, req.Amount, actor, now))
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to adjust worker",
			slog.String("worker_id", workerID),
			slog.String("kind", string(req.Kind)))
		return nil, err
	}
	s.LogInfo(ctx, "Worker adjusted",
		slog.String("worker_id", workerID),
		slog.String("kind", string(req.Kind)),
		slog.String("amount", req.Amount.String()))
	return worker, nil
}

func (s *workerService) EvaluateWorker(ctx context.Context, actor domain.Actor, workerID string, req dto.EvaluateWorkerRequest) (*domain.WorkerEvaluation, error) {
	if err := s.RequireAdmin(ctx, actor, "evaluate workers"); err != nil {
		return nil, err
	}
	scores := domain.EvaluationScores{
		Quality:    req.Quality,
		Timing:     req.Timing,
		Accuracy:   req.Accuracy,
		Efficiency: req.Efficiency,
	}
	if err := scores.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	total := scores.Total()
	bonus, penalty := domain.EvaluationOutcome(total)
	evaluation := domain.WorkerEvaluation{
		EvaluationID:  uuid.NewString(),
		WorkerID:      workerID,
		OrderID:       req.OrderID,
		Scores:        scores,
		TotalScore:    total,
		BonusAmount:   bonus,
		PenaltyAmount: penalty,
		Notes:         req.Notes,
		EvaluatedBy:   actor.DisplayName(),
		CreatedAt:     now,
	}

	err := s.txManager.RunInTx(ctx, func(ctx context.Context) error {
		worker, err := s.workerRepo.FindWorkerByIDForUpdate(ctx, workerID)
		if err != nil {
			return err
		}
		if err := s.workerRepo.SaveEvaluation(ctx, evaluation); err != nil {
			return err
		}

		summary := fmt.Sprintf("evaluation %d/40", total)
		switch {
		case bonus.IsPositive():
			if err := worker.Apply(domain.AdjustIncentive, bonus); err != nil {
				return err
			}
			worker.Touch(actor, now)
			if err := s.workerRepo.UpdateWorker(ctx, worker); err != nil {
				return err
			}
			return s.historyRepo.SaveWorkerHistory(ctx, domain.NewWorkerHistory(workerID, domain.ChangeEvaluationBonus,
				summary+", bonus awarded", bonus, actor, now))
		case penalty.IsPositive():
			return s.historyRepo.SaveWorkerHistory(ctx, domain.NewWorkerHistory(workerID, domain.ChangeEvaluationPenalty,
				summary+", penalty applied", penalty.Neg(), actor, now))
		default:
			return s.historyRepo.SaveWorkerHistory(ctx, domain.NewWorkerHistory(workerID, domain.ChangeUpdated,
				summary, decimal.Zero, actor, now))
		}
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to evaluate worker", slog.String("worker_id", workerID))
		return nil, err
	}
	s.LogInfo(ctx, "Worker evaluated",
		slog.String("worker_id", workerID),
		slog.Int("total_score", total))
	return &evaluation, nil
}

func (s *workerService) PayWorkerSalary(ctx context.Context, actor domain.Actor, workerID string, req dto.PaySalaryRequest) (*dto.SalaryPaymentResponse, error) {
	if err := s.RequireAdmin(ctx, actor, "pay salaries"); err != nil {
		return nil, err
	}

	resp := &dto.SalaryPaymentResponse{}
	err := s.txManager.RunInTx(ctx, func(ctx context.Context) error {
		worker, err := s.workerRepo.FindWorkerByIDForUpdate(ctx, workerID)
		if err != nil {
			return err
		}
		now := s.now()
		resp.PreviousSalary = worker.TotalSalary(now)
		record, err := worker.PaySalary(req.Amount, actor, now)
		if err != nil {
			return err
		}
		record.RecordID = uuid.NewString()
		record.Notes = "salary paid, new period from " + worker.StartDate.Format("2006-01-02")

		worker.Touch(actor, now)
		if err := s.workerRepo.UpdateWorker(ctx, worker); err != nil {
			return err
		}
		stored, err := s.workerRepo.SaveMonthlyRecord(ctx, record)
		if err != nil {
			return err
		}

		method := req.PaymentMethod
		if method == "" {
			method = "cash"
		}
		details := fmt.Sprintf("salary of %s paid by %s", record.PaidAmount.StringFixed(2), method)
		if req.Notes != "" {
			details += ": " + req.Notes
		}
		if err := s.historyRepo.SaveWorkerHistory(ctx, domain.NewWorkerHistory(worker.WorkerID, domain.ChangeSalaryPaid,
			details, record.PaidAmount.Neg(), actor, now)); err != nil {
			return err
		}

		resp.Worker = *worker
		resp.Record = *stored
		resp.NewSalary = worker.TotalSalary(now)
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to pay worker salary",
			slog.String("worker_id", workerID),
			slog.String("amount", req.Amount.String()))
		return nil, err
	}
	s.LogInfo(ctx, "Worker salary paid",
		slog.String("worker_id", workerID),
		slog.String("amount", req.Amount.String()))
	return resp, nil
}

func (s *workerService) AuthenticateWorker(ctx context.Context, username, password string) (*domain.Worker, error) {
	worker, err := s.workerRepo.FindWorkerByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewUnauthorizedError("invalid username or password")
		}
		return nil, err
	}
	if !worker.IsActive || worker.PasswordHash == nil || !utils.CheckPasswordHash(password, *worker.PasswordHash) {
		return nil, apperrors.NewUnauthorizedError("invalid username or password")
	}

	now := s.now()
	worker.LastLogin = &now
	worker.Touch(workerActor(worker), now)
	if err := s.workerRepo.UpdateWorker(ctx, worker); err != nil {
		// Login still succeeds; the timestamp is informational.
		s.LogError(ctx, err, "Failed to record worker login", slog.String("worker_id", worker.WorkerID))
	}
	return worker, nil
}

// workerActor is the identity a worker acts as after logging in.
func workerActor(w *domain.Worker) domain.Actor {
	return domain.Actor{UserID: w.WorkerID, Name: w.Name, Role: domain.RoleWorker}
}
