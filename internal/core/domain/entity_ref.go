package domain

import "fmt"

// EntityType tags the target of a weak (type, id) reference.
type EntityType string

const (
	EntityOrder     EntityType = "order"
	EntityWorker    EntityType = "worker"
	EntityDebt      EntityType = "debt"
	EntityExpense   EntityType = "expense"
	EntityTransport EntityType = "transport"
	EntityTask      EntityType = "task"
)

var knownEntityTypes = map[EntityType]struct{}{
	EntityOrder:     {},
	EntityWorker:    {},
	EntityDebt:      {},
	EntityExpense:   {},
	EntityTransport: {},
	EntityTask:      {},
}

// ParseEntityType validates a stored or client supplied type tag.
func ParseEntityType(s string) (EntityType, error) {
	t := EntityType(s)
	if _, ok := knownEntityTypes[t]; !ok {
		return "", fmt.Errorf("unknown entity type %q", s)
	}
	return t, nil
}

// EntityRef points at another entity without a foreign key.
type EntityRef struct {
	Type EntityType `json:"type"`
	ID   string     `json:"id"`
}

// NewEntityRef returns a pointer to a reference, handy for optional fields.
func NewEntityRef(t EntityType, id string) *EntityRef {
	return &EntityRef{Type: t, ID: id}
}

func (r EntityRef) String() string {
	return string(r.Type) + ":" + r.ID
}

// ResolvedEntity is the result of dereferencing an EntityRef.
type ResolvedEntity struct {
	Ref    EntityRef `json:"ref"`
	Label  string    `json:"label"`
	Entity any       `json:"entity"`
}
