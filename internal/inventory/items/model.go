package items

import "time"

// Condition is the physical state of an item.
type Condition string

const (
	ConditionGood        Condition = "good"
	ConditionDamaged     Condition = "damaged"
	ConditionNeedsRepair Condition = "needs_repair"
)

func (c Condition) Valid() bool {
	switch c {
	case ConditionGood, ConditionDamaged, ConditionNeedsRepair:
		return true
	}
	return false
}

// Item is one row of the items table. Stock is only ever mutated through
// the loan workflow's transactional path or an explicit admin edit.
type Item struct {
	ID          string
	Name        string
	Category    string
	Stock       int
	Location    string
	Condition   Condition
	Description string
	ImageData   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Page struct {
	Limit  int
	Offset int
	Order  string
}
