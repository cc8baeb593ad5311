package mapping

import (
	"github.com/SscSPs/business_management_app/internal/core/domain"
	"github.com/SscSPs/business_management_app/internal/models"
)

func ToDomainActivitySlice(ms []models.Activity) []domain.Activity {
	ds := make([]domain.Activity, len(ms))
	for i, m := range ms {
		source := domain.EntityType(m.Source)
		change := domain.ChangeType(m.ChangeType)
		ds[i] = domain.Activity{
			Kind:       domain.ClassifyActivity(source, change),
			Subject:    domain.EntityRef{Type: source, ID: m.SubjectID},
			ChangeType: change,
			Details:    m.Details,
			Amount:     m.Amount,
			Actor:      m.Actor,
			Timestamp:  m.Timestamp,
		}
	}
	return ds
}

func ToDomainFinancialTotals(m models.FinancialTotals) domain.FinancialTotals {
	return domain.FinancialTotals(m)
}
