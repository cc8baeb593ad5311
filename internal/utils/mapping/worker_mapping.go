package mapping

import (
	"github.com/SscSPs/business_management_app/internal/core/domain"
	"github.com/SscSPs/business_management_app/internal/models"
)

func ToModelWorker(d domain.Worker) models.Worker {
	return models.Worker{
		WorkerID:         d.WorkerID,
		Name:             d.Name,
		Phone:            d.Phone,
		Address:          d.Address,
		IDCard:           d.IDCard,
		StartDate:        d.StartDate,
		MonthlySalary:    d.MonthlySalary,
		Absences:         d.Absences,
		OutsideWorkDays:  d.OutsideWorkDays,
		OutsideWorkBonus: d.OutsideWorkBonus,
		Advances:         d.Advances,
		Incentives:       d.Incentives,
		LateHours:        d.LateHours,
		IsActive:         d.IsActive,
		Username:         d.Username,
		PasswordHash:     d.PasswordHash,
		LastLogin:        d.LastLogin,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

func ToDomainWorker(m models.Worker) domain.Worker {
	return domain.Worker{
		WorkerID:         m.WorkerID,
		Name:             m.Name,
		Phone:            m.Phone,
		Address:          m.Address,
		IDCard:           m.IDCard,
		StartDate:        m.StartDate,
		MonthlySalary:    m.MonthlySalary,
		Absences:         m.Absences,
		OutsideWorkDays:  m.OutsideWorkDays,
		OutsideWorkBonus: m.OutsideWorkBonus,
		Advances:         m.Advances,
		Incentives:       m.Incentives,
		LateHours:        m.LateHours,
		IsActive:         m.IsActive,
		Username:         m.Username,
		PasswordHash:     m.PasswordHash,
		LastLogin:        m.LastLogin,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

func ToDomainWorkerSlice(ms []models.Worker) []domain.Worker {
	ds := make([]domain.Worker, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainWorker(m)
	}
	return ds
}

func ToModelWorkerHistory(d domain.WorkerHistory) models.WorkerHistory {
	return models.WorkerHistory{
		HistoryID:  d.HistoryID,
		WorkerID:   d.WorkerID,
		ChangeType: string(d.ChangeType),
		Details:    d.Details,
		Amount:     d.Amount,
		Actor:      d.Actor,
		Timestamp:  d.Timestamp,
	}
}

func ToDomainWorkerHistorySlice(ms []models.WorkerHistory) []domain.WorkerHistory {
	ds := make([]domain.WorkerHistory, len(ms))
	for i, m := range ms {
		ds[i] = domain.WorkerHistory{
			HistoryID:  m.HistoryID,
			WorkerID:   m.WorkerID,
			ChangeType: domain.ChangeType(m.ChangeType),
			Details:    m.Details,
			Amount:     m.Amount,
			Actor:      m.Actor,
			Timestamp:  m.Timestamp,
		}
	}
	return ds
}

func ToModelWorkerEvaluation(d domain.WorkerEvaluation) models.WorkerEvaluation {
	return models.WorkerEvaluation{
		EvaluationID:  d.EvaluationID,
		WorkerID:      d.WorkerID,
		OrderID:       d.OrderID,
		Quality:       d.Scores.Quality,
		Timing:        d.Scores.Timing,
		Accuracy:      d.Scores.Accuracy,
		Efficiency:    d.Scores.Efficiency,
		TotalScore:    d.TotalScore,
		BonusAmount:   d.BonusAmount,
		PenaltyAmount: d.PenaltyAmount,
		Notes:         d.Notes,
		EvaluatedBy:   d.EvaluatedBy,
		CreatedAt:     d.CreatedAt,
	}
}

func ToDomainWorkerEvaluationSlice(ms []models.WorkerEvaluation) []domain.WorkerEvaluation {
	ds := make([]domain.WorkerEvaluation, len(ms))
	for i, m := range ms {
		ds[i] = domain.WorkerEvaluation{
			EvaluationID: m.EvaluationID,
			WorkerID:     m.WorkerID,
			OrderID:      m.OrderID,
			Scores: domain.EvaluationScores{
				Quality:    m.Quality,
				Timing:     m.Timing,
				Accuracy:   m.Accuracy,
				Efficiency: m.Efficiency,
			},
			TotalScore:    m.TotalScore,
			BonusAmount:   m.BonusAmount,
			PenaltyAmount: m.PenaltyAmount,
			Notes:         m.Notes,
			EvaluatedBy:   m.EvaluatedBy,
			CreatedAt:     m.CreatedAt,
		}
	}
	return ds
}

func ToModelAssignment(d domain.OrderAssignment) models.OrderAssignment {
	return models.OrderAssignment{
		AssignmentID:   d.AssignmentID,
		OrderID:        d.OrderID,
		WorkerID:       d.WorkerID,
		WorkerName:     d.WorkerName,
		AssignmentType: string(d.AssignmentType),
		AssignedDate:   d.AssignedDate,
		CompletedDate:  d.CompletedDate,
		IsActive:       d.IsActive,
		Notes:          d.Notes,
		AssignedBy:     d.AssignedBy,
	}
}

func ToDomainAssignment(m models.OrderAssignment) domain.OrderAssignment {
	return domain.OrderAssignment{
		AssignmentID:   m.AssignmentID,
		OrderID:        m.OrderID,
		WorkerID:       m.WorkerID,
		WorkerName:     m.WorkerName,
		AssignmentType: domain.AssignmentType(m.AssignmentType),
		AssignedDate:   m.AssignedDate,
		CompletedDate:  m.CompletedDate,
		IsActive:       m.IsActive,
		Notes:          m.Notes,
		AssignedBy:     m.AssignedBy,
	}
}

func ToDomainAssignmentSlice(ms []models.OrderAssignment) []domain.OrderAssignment {
	ds := make([]domain.OrderAssignment, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAssignment(m)
	}
	return ds
}

func ToModelWorkerMonthlyRecord(d domain.WorkerMonthlyRecord) models.WorkerMonthlyRecord {
	return models.WorkerMonthlyRecord(d)
}

func ToDomainWorkerMonthlyRecord(m models.WorkerMonthlyRecord) domain.WorkerMonthlyRecord {
	return domain.WorkerMonthlyRecord(m)
}

func ToDomainWorkerMonthlyRecordSlice(ms []models.WorkerMonthlyRecord) []domain.WorkerMonthlyRecord {
	ds := make([]domain.WorkerMonthlyRecord, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainWorkerMonthlyRecord(m)
	}
	return ds
}
