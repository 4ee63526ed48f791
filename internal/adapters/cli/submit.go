package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/tanjung-residence/siskamling/attendance-service/internal/core/domain"
)

// pairs collects repeated NAME=VALUE flags in the order given.
type pairs []pair

type pair struct {
	name  string
	value string
}

func (p *pairs) String() string {
	parts := make([]string, 0, len(*p))
	for _, kv := range *p {
		parts = append(parts, kv.name+"="+kv.value)
	}
	return strings.Join(parts, ",")
}

func (p *pairs) Set(s string) error {
	name, value, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return fmt.Errorf("expected NAME=VALUE, got %q", s)
	}
	*p = append(*p, pair{name: name, value: value})
	return nil
}

func (a *App) runSubmit(ctx context.Context, args []string) error {
	var statuses, notes pairs
	var prelek string

	fs := flag.NewFlagSet("submit", flag.ContinueOnError)
	fs.SetOutput(a.out)
	fs.Var(&statuses, "status", "member status as NAME=STATUS (repeatable)")
	fs.Var(&notes, "note", "member note as NAME=TEXT (repeatable)")
	fs.StringVar(&prelek, "prelek", "", "prelek amount in rupiah")
	if err := fs.Parse(args); err != nil {
		return ErrUsage
	}

	view := a.session.View()
	if !view.HasRoster {
		writeNoSchedule(a.out)
		return domain.ErrNoSchedule
	}

	for _, kv := range statuses {
		status, err := domain.ParseStatus(kv.value)
		if err != nil {
			return fmt.Errorf("%s: %w", kv.name, err)
		}
		if err := a.session.SetStatus(kv.name, status); err != nil {
			return fmt.Errorf("%s: %w", kv.name, err)
		}
	}

	// Notes are only offered for members who are not present.
	for _, kv := range notes {
		if !a.session.NotesEnabled(kv.name) {
			return fmt.Errorf("%s: catatan hanya bisa diisi untuk status Izin, Sakit, atau Alpa", kv.name)
		}
		if err := a.session.SetNotes(kv.name, kv.value); err != nil {
			return fmt.Errorf("%s: %w", kv.name, err)
		}
	}

	if err := a.session.SetPrelek(prelek); err != nil {
		return err
	}

	analysis, err := a.session.Submit(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrIncompleteSubmission) {
			fmt.Fprintln(a.out, "Harap isi semua status kehadiran.")
			for _, m := range a.session.View().Missing {
				fmt.Fprintf(a.out, "  - %s\n", m)
			}
		}
		return err
	}

	fmt.Fprintln(a.out, "Absensi berhasil dikirim.")
	writeAnalysis(a.out, view.Roster.Title, analysis)
	a.logger.Debug("submit command finished", zap.String("schedule", view.Roster.Title))
	return nil
}
