package mapping_test

import (
	"testing"
	"time"

	"github.com/SscSPs/business_management_app/internal/core/domain"
	"github.com/SscSPs/business_management_app/internal/utils/mapping"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskMapping_RelatedReference(t *testing.T) {
	now := time.Now().UTC()
	task := domain.Task{
		TaskID:      "t1",
		Title:       "Deliver",
		Related:     domain.NewEntityRef(domain.EntityOrder, "o1"),
		AuditFields: domain.NewAuditFields(domain.SystemActor(), now),
	}

	m := mapping.ToModelTask(task)
	require.NotNil(t, m.RelatedEntityType)
	require.NotNil(t, m.RelatedEntityID)
	assert.Equal(t, "order", *m.RelatedEntityType)
	assert.Equal(t, "o1", *m.RelatedEntityID)

	back := mapping.ToDomainTask(m)
	assert.Equal(t, task.Related, back.Related)
}

func TestTaskMapping_NoRelatedReference(t *testing.T) {
	m := mapping.ToModelTask(domain.Task{TaskID: "t2"})
	assert.Nil(t, m.RelatedEntityType)
	assert.Nil(t, m.RelatedEntityID)
	assert.Nil(t, mapping.ToDomainTask(m).Related)
}

func TestDebtMapping_ManualDebtHasNoSource(t *testing.T) {
	d := mapping.ToDomainDebt(mapping.ToModelDebt(domain.Debt{DebtID: "d1", Status: domain.DebtUnpaid}))
	assert.Nil(t, d.Source)
	assert.Equal(t, domain.DebtUnpaid, d.Status)
}
