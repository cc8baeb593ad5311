package dto

import "github.com/SscSPs/business_management_app/internal/core/domain"

// AssignWorkerRequest assigns a worker to an order.
type AssignWorkerRequest struct {
	WorkerID       string                `json:"workerID" binding:"required"`
	AssignmentType domain.AssignmentType `json:"assignmentType" binding:"required,oneof=workshop field travel"`
	Notes          string                `json:"notes"`
}
