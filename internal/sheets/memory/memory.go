package memory

import (
	"context"
	"fmt"
	"sync"

	"foodshare/internal/core"
)

// Report is an in-memory sheets.ReportWriter used in development and
// tests instead of a real spreadsheet.
type Report struct {
	mu   sync.Mutex
	rows []Row
}

type Row struct {
	Claim   core.Claim
	Listing core.Listing
}

func NewReport() *Report {
	return &Report{}
}

// AppendClaim stores the row and returns a synthetic row reference.
func (r *Report) AppendClaim(_ context.Context, c core.Claim, l core.Listing) (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, Row{Claim: c, Listing: l})
	return fmt.Sprintf("mem:%d", len(r.rows)), nil
}

// CountClaimRows implements sheets.ReportReader.
func (r *Report) CountClaimRows(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows), nil
}

// Rows returns a copy of the appended rows for assertions in tests.
func (r *Report) Rows() []Row {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Row, len(r.rows))
	copy(out, r.rows)
	return out
}
