// Package recurring materializes recurring transactions at the start of each
// period. A transaction flagged recurring whose latest occurrence predates
// the current month gets cloned through the atomic create path.
package recurring

import (
	"context"
	"fmt"
	"time"

	"github.com/Tijigui/fintrack/internal/core"
	applog "github.com/Tijigui/fintrack/internal/log"
	"github.com/Tijigui/fintrack/internal/storage"
)

type Processor struct {
	store  storage.Store
	logger *applog.Logger
}

func NewProcessor(store storage.Store, logger *applog.Logger) *Processor {
	return &Processor{
		store:  store,
		logger: logger.WithComponent(applog.ComponentRecurring),
	}
}

// ProcessDue clones every due recurring series into the month containing
// now. Failures on individual series are logged and skipped; the count of
// created transactions is returned.
func (p *Processor) ProcessDue(ctx context.Context, now time.Time) (int, error) {
	monthStart, _ := core.MonthBounds(now)

	due, err := p.store.ListRecurringDue(ctx, monthStart)
	if err != nil {
		return 0, fmt.Errorf("list recurring due: %w", err)
	}

	p.logger.InfoContext(ctx, "Processing recurring transactions",
		"due", len(due),
		"period_start", monthStart.Format("2006-01-02"))

	created := 0
	for _, template := range due {
		clone := core.Transaction{
			UserID:      template.UserID,
			Description: template.Description,
			Amount:      template.Amount,
			Type:        template.Type,
			Category:    template.Category,
			AccountID:   template.AccountID,
			Date:        occurrenceDate(template.Date, monthStart),
			Recurring:   true,
			Tags:        template.Tags,
		}

		if _, _, err := p.store.CreateTransaction(ctx, clone); err != nil {
			p.logger.ErrorContext(ctx, "Failed to clone recurring transaction",
				applog.FieldError, err,
				applog.FieldUserID, template.UserID,
				"description", template.Description)
			continue
		}

		created++
		p.logger.InfoContext(ctx, "Created recurring transaction",
			applog.FieldUserID, template.UserID,
			applog.FieldAmount, template.Amount.Cents,
			"description", template.Description)
	}

	return created, nil
}

// occurrenceDate keeps the template's day of month where the target month
// has it, clamping to the month's last day otherwise.
func occurrenceDate(templateDate, monthStart time.Time) time.Time {
	day := templateDate.Day()
	lastDay := monthStart.AddDate(0, 1, -1).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(monthStart.Year(), monthStart.Month(), day, 0, 0, 0, 0, time.UTC)
}
