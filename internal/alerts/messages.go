package alerts

import (
	"encoding/json"
	"time"

	"github.com/Tijigui/fintrack/internal/core"
)

// BudgetAlert is published when an expense pushes spending in a budgeted
// category to or past the configured limit. Amounts are snapshot at publish
// time, the consumer need not query the database.
type BudgetAlert struct {
	UserID     int64             `json:"user_id"`
	Category   string            `json:"category"`
	Period     core.BudgetPeriod `json:"period"`
	LimitCents int64             `json:"limit_cents"`
	SpentCents int64             `json:"spent_cents"`
	Timestamp  time.Time         `json:"timestamp"`
}

func NewBudgetAlert(userID int64, b core.Budget, spent core.Money) *BudgetAlert {
	return &BudgetAlert{
		UserID:     userID,
		Category:   b.Category,
		Period:     b.Period,
		LimitCents: b.Limit.Cents,
		SpentCents: spent.Cents,
		Timestamp:  time.Now(),
	}
}

func (m *BudgetAlert) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func BudgetAlertFromJSON(data []byte) (*BudgetAlert, error) {
	var msg BudgetAlert
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
