package repository

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tanjung-residence/siskamling/attendance-service/internal/core/domain"
)

// EncodeLog serializes the log as a JSON array in append order.
func EncodeLog(records []domain.SubmissionRecord) (string, error) {
	if records == nil {
		records = []domain.SubmissionRecord{}
	}
	b, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("encode submission log: %w", err)
	}
	return string(b), nil
}

// DecodeLog parses a stored log. A blank value is an empty log.
func DecodeLog(raw string) ([]domain.SubmissionRecord, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var records []domain.SubmissionRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, err
	}
	for i, r := range records {
		if err := validateRecord(r); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
	}
	return records, nil
}

func validateRecord(r domain.SubmissionRecord) error {
	switch {
	case r.ID <= 0:
		return fmt.Errorf("id must be positive, got %d", r.ID)
	case strings.TrimSpace(r.ScheduleTitle) == "":
		return fmt.Errorf("record %d has no schedule title", r.ID)
	case r.PrelekResult < 0:
		return fmt.Errorf("record %d has negative prelek %v", r.ID, r.PrelekResult)
	}
	return nil
}
