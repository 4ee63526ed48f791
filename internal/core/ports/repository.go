package ports

import (
	"context"

	"github.com/tanjung-residence/siskamling/attendance-service/internal/core/domain"
)

// SubmissionLog is the append-only list of submissions shared by the
// attendance session and the recap reader.
type SubmissionLog interface {
	// Load returns every record in append order. A stored value that cannot
	// be decoded yields a *domain.MalformedLogError.
	Load(ctx context.Context) ([]domain.SubmissionRecord, error)
	// Append stores record with an id strictly greater than every id already
	// in the log and returns the record as stored.
	Append(ctx context.Context, record domain.SubmissionRecord) (domain.SubmissionRecord, error)
}
