package cli

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"go.uber.org/zap"

	"github.com/tanjung-residence/siskamling/attendance-service/internal/adapters/export"
	"github.com/tanjung-residence/siskamling/attendance-service/internal/adapters/format"
	"github.com/tanjung-residence/siskamling/attendance-service/internal/core/domain"
)

type recapRecordJSON struct {
	domain.SubmissionRecord
	Analysis domain.Analysis `json:"analysis"`
}

func (a *App) checkSchedule(schedule string) error {
	if schedule == "" || schedule == domain.RecapFilterAll {
		return nil
	}
	if !slices.Contains(a.recap.Titles(), schedule) {
		fmt.Fprintf(a.out, "unknown schedule %q, expected one of:\n", schedule)
		for _, t := range a.recap.Titles() {
			fmt.Fprintf(a.out, "  %s\n", t)
		}
		return ErrUsage
	}
	return nil
}

func (a *App) runRecap(ctx context.Context, args []string) error {
	var schedule string
	var asJSON bool

	fs := flag.NewFlagSet("recap", flag.ContinueOnError)
	fs.SetOutput(a.out)
	fs.StringVar(&schedule, "schedule", domain.RecapFilterAll, "only show submissions for this schedule title")
	fs.BoolVar(&asJSON, "json", false, "print submissions as JSON")
	if err := fs.Parse(args); err != nil {
		return ErrUsage
	}
	if err := a.checkSchedule(schedule); err != nil {
		return err
	}

	entries := a.recap.List(ctx, schedule)

	if asJSON {
		out := make([]recapRecordJSON, 0, len(entries))
		for _, e := range entries {
			out = append(out, recapRecordJSON{SubmissionRecord: e.Record, Analysis: e.Analysis})
		}
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Fprintln(a.out, "Rekap Absensi Siskamling")
	fmt.Fprintln(a.out)
	if len(entries) == 0 {
		fmt.Fprintln(a.out, "Data Tidak Ditemukan")
		return nil
	}

	for _, e := range entries {
		fmt.Fprintf(a.out, "%s\n", e.Record.ScheduleTitle)
		fmt.Fprintf(a.out, "  %s\n", format.DateTime(e.Record.SubmittedAt.In(a.loc)))
		writeCounts(a.out, "  ", e.Analysis.StatusCounts, e.Analysis.PrelekResult)
		writeNotes(a.out, "  ", e.Analysis.Notes)
		fmt.Fprintln(a.out)
	}

	totals := domain.SumRecap(entries)
	fmt.Fprintf(a.out, "Total %d pengiriman\n", totals.Submissions)
	writeCounts(a.out, "  ", totals.StatusCounts, totals.PrelekResult)
	return nil
}

func (a *App) runExport(ctx context.Context, args []string) error {
	var schedule, out string

	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(a.out)
	fs.StringVar(&out, "out", "", "path of the .xlsx file to write")
	fs.StringVar(&schedule, "schedule", domain.RecapFilterAll, "only export submissions for this schedule title")
	if err := fs.Parse(args); err != nil {
		return ErrUsage
	}
	if out == "" {
		fmt.Fprintln(a.out, "export: --out is required")
		return ErrUsage
	}
	if err := a.checkSchedule(schedule); err != nil {
		return err
	}

	entries := a.recap.List(ctx, schedule)

	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create export directory: %w", err)
		}
	}
	file, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	if err := export.WriteRecapWorkbook(file, entries, a.loc); err != nil {
		return errors.Join(err, file.Close())
	}
	if err := file.Close(); err != nil {
		return err
	}

	a.logger.Info("recap exported", zap.String("path", out), zap.Int("submissions", len(entries)))
	fmt.Fprintf(a.out, "%d pengiriman diekspor ke %s\n", len(entries), out)
	return nil
}
