package sheets

import (
	"context"

	"foodshare/internal/core"
)

// Ports for outbound report adapters.
type (
	// ReportWriter appends one claim (with its listing) as a row on the
	// report spreadsheet.
	ReportWriter interface {
		AppendClaim(ctx context.Context, c core.Claim, l core.Listing) (rowRef string, err error)
	}

	// ReportReader returns how many claim rows the report currently
	// holds, used by the worker's startup check.
	ReportReader interface {
		CountClaimRows(ctx context.Context) (int, error)
	}
)
