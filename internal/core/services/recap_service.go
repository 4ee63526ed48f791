package services

import (
	"cmp"
	"context"
	"errors"
	"slices"

	"go.uber.org/zap"

	"github.com/tanjung-residence/siskamling/attendance-service/internal/core/domain"
	"github.com/tanjung-residence/siskamling/attendance-service/internal/core/ports"
	"github.com/tanjung-residence/siskamling/attendance-service/internal/metrics"
)

// RecapService is the read-only view over past submissions.
type RecapService struct {
	log    ports.SubmissionLog
	table  *domain.RosterTable
	logger *zap.Logger
}

var _ ports.RecapService = (*RecapService)(nil)

func NewRecapService(log ports.SubmissionLog, table *domain.RosterTable, logger *zap.Logger) *RecapService {
	return &RecapService{
		log:    log,
		table:  table,
		logger: logger.Named("recap"),
	}
}

// List never fails: an unreadable or malformed log is reported in the logs
// and shown as empty.
func (s *RecapService) List(ctx context.Context, filter string) []domain.RecapEntry {
	records, err := s.log.Load(ctx)
	if err != nil {
		var malformed *domain.MalformedLogError
		if errors.As(err, &malformed) {
			metrics.MalformedLog()
		}
		s.logger.Warn("failed to load submissions, showing empty recap", zap.Error(err))
		return nil
	}

	slices.SortStableFunc(records, func(a, b domain.SubmissionRecord) int {
		return cmp.Compare(b.ID, a.ID)
	})

	all := filter == "" || filter == domain.RecapFilterAll
	var out []domain.RecapEntry
	for _, r := range records {
		if !all && r.ScheduleTitle != filter {
			continue
		}
		out = append(out, domain.RecapEntry{Record: r, Analysis: r.Analysis()})
	}
	return out
}

// Titles lists the roster titles available as recap filters.
func (s *RecapService) Titles() []string {
	return s.table.Titles()
}
