package mapping

import (
	"github.com/SscSPs/business_management_app/internal/core/domain"
	"github.com/SscSPs/business_management_app/internal/models"
)

func ToModelOrder(d domain.Order) models.Order {
	return models.Order{
		OrderID:              d.OrderID,
		Name:                 d.Name,
		Wilaya:               d.Wilaya,
		Product:              d.Product,
		ProductionDetails:    d.ProductionDetails,
		Paid:                 d.Paid,
		Total:                d.Total,
		Note:                 d.Note,
		StatusID:             d.StatusID,
		StatusName:           d.StatusName,
		IsPaid:               d.IsPaid,
		StartDate:            d.StartDate,
		ExpectedDeliveryDate: d.ExpectedDeliveryDate,
		ActualDeliveryDate:   d.ActualDeliveryDate,
		CompletionDate:       d.CompletionDate,
		AuditFields:          ToModelAuditFields(d.AuditFields),
	}
}

func ToDomainOrder(m models.Order) domain.Order {
	return domain.Order{
		OrderID:              m.OrderID,
		Name:                 m.Name,
		Wilaya:               m.Wilaya,
		Product:              m.Product,
		ProductionDetails:    m.ProductionDetails,
		Paid:                 m.Paid,
		Total:                m.Total,
		Note:                 m.Note,
		StatusID:             m.StatusID,
		StatusName:           m.StatusName,
		IsPaid:               m.IsPaid,
		StartDate:            m.StartDate,
		ExpectedDeliveryDate: m.ExpectedDeliveryDate,
		ActualDeliveryDate:   m.ActualDeliveryDate,
		CompletionDate:       m.CompletionDate,
		AuditFields:          ToDomainAuditFields(m.AuditFields),
	}
}

func ToDomainOrderSlice(ms []models.Order) []domain.Order {
	ds := make([]domain.Order, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainOrder(m)
	}
	return ds
}

func ToDomainOrderStatus(m models.OrderStatus) domain.OrderStatus {
	return domain.OrderStatus{
		StatusID:  m.StatusID,
		Name:      m.Name,
		Color:     m.Color,
		IsSystem:  m.IsSystem,
		CreatedAt: m.CreatedAt,
	}
}

func ToDomainOrderStatusSlice(ms []models.OrderStatus) []domain.OrderStatus {
	ds := make([]domain.OrderStatus, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainOrderStatus(m)
	}
	return ds
}

func ToModelOrderHistory(d domain.OrderHistory) models.OrderHistory {
	return models.OrderHistory{
		HistoryID:  d.HistoryID,
		OrderID:    d.OrderID,
		ChangeType: string(d.ChangeType),
		Details:    d.Details,
		Actor:      d.Actor,
		Timestamp:  d.Timestamp,
	}
}

func ToDomainOrderHistorySlice(ms []models.OrderHistory) []domain.OrderHistory {
	ds := make([]domain.OrderHistory, len(ms))
	for i, m := range ms {
		ds[i] = domain.OrderHistory{
			HistoryID:  m.HistoryID,
			OrderID:    m.OrderID,
			ChangeType: domain.ChangeType(m.ChangeType),
			Details:    m.Details,
			Actor:      m.Actor,
			Timestamp:  m.Timestamp,
		}
	}
	return ds
}
