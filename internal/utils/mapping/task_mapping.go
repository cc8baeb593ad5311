package mapping

import (
	"github.com/SscSPs/business_management_app/internal/core/domain"
	"github.com/SscSPs/business_management_app/internal/models"
)

// refColumns splits an optional reference into its nullable type and id columns.
func refColumns(ref *domain.EntityRef) (*string, *string) {
	if ref == nil {
		return nil, nil
	}
	t, id := string(ref.Type), ref.ID
	return &t, &id
}

// refFromColumns rebuilds an optional reference from nullable columns.
func refFromColumns(t, id *string) *domain.EntityRef {
	if t == nil || id == nil {
		return nil
	}
	return domain.NewEntityRef(domain.EntityType(*t), *id)
}

func ToModelTask(d domain.Task) models.Task {
	relType, relID := refColumns(d.Related)
	var assignmentType *string
	if d.AssignmentType != nil {
		s := string(*d.AssignmentType)
		assignmentType = &s
	}
	return models.Task{
		TaskID:                d.TaskID,
		Title:                 d.Title,
		Description:           d.Description,
		Priority:              string(d.Priority),
		Status:                string(d.Status),
		TaskType:              string(d.TaskType),
		TaskScope:             string(d.TaskScope),
		VisibilityScope:       string(d.VisibilityScope),
		AssignedTo:            d.AssignedTo,
		WorkerID:              d.WorkerID,
		DueDate:               d.DueDate,
		RelatedEntityType:     relType,
		RelatedEntityID:       relID,
		AutoGenerated:         d.AutoGenerated,
		CompletedAt:           d.CompletedAt,
		Notes:                 d.Notes,
		CompletionNotes:       d.CompletionNotes,
		AssignmentType:        assignmentType,
		WaitingApproval:       d.WaitingApproval,
		ApprovedBy:            d.ApprovedBy,
		ApprovalDate:          d.ApprovalDate,
		AdminApprovalRequired: d.AdminApprovalRequired,
		AdminApproved:         d.AdminApproved,
		AdminApprovedBy:       d.AdminApprovedBy,
		AdminApprovalDate:     d.AdminApprovalDate,
		SuspensionRequested:   d.SuspensionRequested,
		SuspensionReason:      d.SuspensionReason,
		SuspensionApproved:    d.SuspensionApproved,
		Archived:              d.Archived,
		AuditFields:           ToModelAuditFields(d.AuditFields),
	}
}

func ToDomainTask(m models.Task) domain.Task {
	var assignmentType *domain.AssignmentType
	if m.AssignmentType != nil {
		at := domain.AssignmentType(*m.AssignmentType)
		assignmentType = &at
	}
	return domain.Task{
		TaskID:                m.TaskID,
		Title:                 m.Title,
		Description:           m.Description,
		Priority:              domain.TaskPriority(m.Priority),
		Status:                domain.TaskStatus(m.Status),
		TaskType:              domain.TaskType(m.TaskType),
		TaskScope:             domain.TaskScope(m.TaskScope),
		VisibilityScope:       domain.VisibilityScope(m.VisibilityScope),
		AssignedTo:            m.AssignedTo,
		WorkerID:              m.WorkerID,
		DueDate:               m.DueDate,
		Related:               refFromColumns(m.RelatedEntityType, m.RelatedEntityID),
		AutoGenerated:         m.AutoGenerated,
		CompletedAt:           m.CompletedAt,
		Notes:                 m.Notes,
		CompletionNotes:       m.CompletionNotes,
		AssignmentType:        assignmentType,
		WaitingApproval:       m.WaitingApproval,
		ApprovedBy:            m.ApprovedBy,
		ApprovalDate:          m.ApprovalDate,
		AdminApprovalRequired: m.AdminApprovalRequired,
		AdminApproved:         m.AdminApproved,
		AdminApprovedBy:       m.AdminApprovedBy,
		AdminApprovalDate:     m.AdminApprovalDate,
		SuspensionRequested:   m.SuspensionRequested,
		SuspensionReason:      m.SuspensionReason,
		SuspensionApproved:    m.SuspensionApproved,
		Archived:              m.Archived,
		AuditFields:           ToDomainAuditFields(m.AuditFields),
	}
}

func ToDomainTaskSlice(ms []models.Task) []domain.Task {
	ds := make([]domain.Task, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTask(m)
	}
	return ds
}
