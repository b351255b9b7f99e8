package approval

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/tatsuyanakanogaroinc/zeroko-cash-sub001/internal/domain/request"
)

// FeedService merges both request kinds into one normalized, time-ordered
// read model. It is purely a read/transform layer.
type FeedService struct {
	expenses request.ExpenseRepository
	invoices request.InvoiceRepository
}

// NewFeedService creates a new FeedService
func NewFeedService(expenses request.ExpenseRepository, invoices request.InvoiceRepository) *FeedService {
	return &FeedService{expenses: expenses, invoices: invoices}
}

// ListCombined returns both request kinds as one feed ordered by created_at
// descending. The repositories return each kind already ordered, so the
// merge is a stable two-pointer pass; ties on created_at fall back to the
// request ID so the feed is deterministic across restarts.
func (s *FeedService) ListCombined(ctx context.Context, filter request.ListFilter) ([]CombinedEntry, error) {
	expenses, err := s.expenses.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	invoices, err := s.invoices.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	entries := make([]CombinedEntry, 0, len(expenses)+len(invoices))
	i, j := 0, 0
	for i < len(expenses) && j < len(invoices) {
		if combinedBefore(&expenses[i].Core, &invoices[j].Core) {
			entries = append(entries, newCombinedEntry(&expenses[i]))
			i++
		} else {
			entries = append(entries, newCombinedEntry(&invoices[j]))
			j++
		}
	}
	for ; i < len(expenses); i++ {
		entries = append(entries, newCombinedEntry(&expenses[i]))
	}
	for ; j < len(invoices); j++ {
		entries = append(entries, newCombinedEntry(&invoices[j]))
	}
	return entries, nil
}

// combinedBefore reports whether a should precede b in the descending feed
func combinedBefore(a, b *request.Core) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID.String() < b.ID.String()
}

// Summarize computes the feed aggregation in a single pass over the entries
func (s *FeedService) Summarize(entries []CombinedEntry) FeedSummary {
	summary := FeedSummary{TotalAmount: decimal.Zero}
	for _, entry := range entries {
		switch entry.Status {
		case request.StatusPending:
			summary.Pending++
		case request.StatusApproved:
			summary.Approved++
		case request.StatusRejected:
			summary.Rejected++
		}
		summary.TotalAmount = summary.TotalAmount.Add(entry.Amount)
	}
	return summary
}
