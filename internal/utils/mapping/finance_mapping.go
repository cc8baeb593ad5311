package mapping

import (
	"github.com/SscSPs/business_management_app/internal/core/domain"
	"github.com/SscSPs/business_management_app/internal/models"
)

func ToModelDebt(d domain.Debt) models.Debt {
	srcType, srcID := refColumns(d.Source)
	return models.Debt{
		DebtID:      d.DebtID,
		Name:        d.Name,
		Phone:       d.Phone,
		Address:     d.Address,
		DebtAmount:  d.DebtAmount,
		PaidAmount:  d.PaidAmount,
		StartDate:   d.StartDate,
		PaymentDate: d.PaymentDate,
		Status:      string(d.Status),
		SourceType:  srcType,
		SourceID:    srcID,
		Description: d.Description,
		RecordedBy:  d.RecordedBy,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

func ToDomainDebt(m models.Debt) domain.Debt {
	return domain.Debt{
		DebtID:      m.DebtID,
		Name:        m.Name,
		Phone:       m.Phone,
		Address:     m.Address,
		DebtAmount:  m.DebtAmount,
		PaidAmount:  m.PaidAmount,
		StartDate:   m.StartDate,
		PaymentDate: m.PaymentDate,
		Status:      domain.DebtStatus(m.Status),
		Source:      refFromColumns(m.SourceType, m.SourceID),
		Description: m.Description,
		RecordedBy:  m.RecordedBy,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

func ToDomainDebtSlice(ms []models.Debt) []domain.Debt {
	ds := make([]domain.Debt, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainDebt(m)
	}
	return ds
}

func ToModelExpense(d domain.Expense) models.Expense {
	return models.Expense{
		ExpenseID:       d.ExpenseID,
		OrderID:         d.OrderID,
		Category:        d.Category,
		Description:     d.Description,
		Quantity:        d.Quantity,
		UnitPrice:       d.UnitPrice,
		TotalAmount:     d.TotalAmount,
		PaidAmount:      d.PaidAmount,
		PaymentStatus:   string(d.PaymentStatus),
		PaymentMethod:   d.PaymentMethod,
		SupplierName:    d.SupplierName,
		SupplierPhone:   d.SupplierPhone,
		SupplierAddress: d.SupplierAddress,
		PurchasedBy:     d.PurchasedBy,
		PurchaseDate:    d.PurchaseDate,
		Notes:           d.Notes,
		RecordedBy:      d.RecordedBy,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

func ToDomainExpense(m models.Expense) domain.Expense {
	return domain.Expense{
		ExpenseID:       m.ExpenseID,
		OrderID:         m.OrderID,
		Category:        m.Category,
		Description:     m.Description,
		Quantity:        m.Quantity,
		UnitPrice:       m.UnitPrice,
		TotalAmount:     m.TotalAmount,
		PaidAmount:      m.PaidAmount,
		PaymentStatus:   domain.PaymentStatus(m.PaymentStatus),
		PaymentMethod:   m.PaymentMethod,
		SupplierName:    m.SupplierName,
		SupplierPhone:   m.SupplierPhone,
		SupplierAddress: m.SupplierAddress,
		PurchasedBy:     m.PurchasedBy,
		PurchaseDate:    m.PurchaseDate,
		Notes:           m.Notes,
		RecordedBy:      m.RecordedBy,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

func ToDomainExpenseSlice(ms []models.Expense) []domain.Expense {
	ds := make([]domain.Expense, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainExpense(m)
	}
	return ds
}

func ToModelTransport(d domain.Transport) models.Transport {
	return models.Transport{
		TransportID:     d.TransportID,
		OrderID:         d.OrderID,
		Name:            d.Name,
		Phone:           d.Phone,
		Address:         d.Address,
		TransportAmount: d.TransportAmount,
		PaidAmount:      d.PaidAmount,
		PaymentStatus:   string(d.PaymentStatus),
		Destination:     d.Destination,
		Purpose:         d.Purpose,
		TransportType:   d.TransportType,
		TransportMethod: d.TransportMethod,
		Distance:        d.Distance,
		TransportDate:   d.TransportDate,
		Notes:           d.Notes,
		RecordedBy:      d.RecordedBy,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

func ToDomainTransport(m models.Transport) domain.Transport {
	return domain.Transport{
		TransportID:     m.TransportID,
		OrderID:         m.OrderID,
		Name:            m.Name,
		Phone:           m.Phone,
		Address:         m.Address,
		TransportAmount: m.TransportAmount,
		PaidAmount:      m.PaidAmount,
		PaymentStatus:   domain.PaymentStatus(m.PaymentStatus),
		Destination:     m.Destination,
		Purpose:         m.Purpose,
		TransportType:   m.TransportType,
		TransportMethod: m.TransportMethod,
		Distance:        m.Distance,
		TransportDate:   m.TransportDate,
		Notes:           m.Notes,
		RecordedBy:      m.RecordedBy,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

func ToDomainTransportSlice(ms []models.Transport) []domain.Transport {
	ds := make([]domain.Transport, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransport(m)
	}
	return ds
}

func ToModelReceipt(d domain.Receipt) models.Receipt {
	return models.Receipt{
		ReceiptID:        d.ReceiptID,
		OwnerType:        string(d.Owner.Type),
		OwnerID:          d.Owner.ID,
		ObjectKey:        d.ObjectKey,
		OriginalFilename: d.OriginalFilename,
		ContentType:      d.ContentType,
		Size:             d.Size,
		UploadedBy:       d.UploadedBy,
		UploadedAt:       d.UploadedAt,
	}
}

func ToDomainReceipt(m models.Receipt) domain.Receipt {
	return domain.Receipt{
		ReceiptID:        m.ReceiptID,
		Owner:            domain.EntityRef{Type: domain.EntityType(m.OwnerType), ID: m.OwnerID},
		ObjectKey:        m.ObjectKey,
		OriginalFilename: m.OriginalFilename,
		ContentType:      m.ContentType,
		Size:             m.Size,
		UploadedBy:       m.UploadedBy,
		UploadedAt:       m.UploadedAt,
	}
}

func ToDomainReceiptSlice(ms []models.Receipt) []domain.Receipt {
	ds := make([]domain.Receipt, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainReceipt(m)
	}
	return ds
}
