package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/tanjung-residence/siskamling/attendance-service/internal/core/domain"
)

var errInputClosed = errors.New("input closed")

type fillOutcome int

const (
	fillSubmitted fillOutcome = iota
	fillRosterChanged
	fillDiscarded
)

// lineReader feeds stdin lines through a channel so prompts can be abandoned
// when ctx is cancelled. The scanner goroutine stops once done is closed.
type lineReader struct {
	lines chan string
	err   error
}

func newLineReader(r io.Reader, done <-chan struct{}) *lineReader {
	lr := &lineReader{lines: make(chan string)}
	go func() {
		defer close(lr.lines)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case lr.lines <- sc.Text():
			case <-done:
				return
			}
		}
		lr.err = sc.Err()
	}()
	return lr
}

func (lr *lineReader) read(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-lr.lines:
		if !ok {
			if lr.err != nil {
				return "", lr.err
			}
			return "", errInputClosed
		}
		return strings.TrimSpace(line), nil
	}
}

// form runs the interactive attendance loop until the input ends or the user
// stops after a submission.
type form struct {
	app     *App
	in      *lineReader
	changed atomic.Bool
}

func (a *App) runForm(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	f := &form{app: a, in: newLineReader(a.in, done)}

	if a.watcher != nil {
		a.watcher.OnChange(func(domain.Roster, bool) { f.changed.Store(true) })
		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go a.watcher.Run(watchCtx)
	}

	err := f.loop(ctx)
	if errors.Is(err, errInputClosed) || errors.Is(err, context.Canceled) {
		fmt.Fprintln(a.out)
		return nil
	}
	return err
}

func (f *form) loop(ctx context.Context) error {
	out := f.app.out
	for {
		f.changed.Store(false)
		view := f.app.session.View()

		fmt.Fprintln(out, appTitle)
		fmt.Fprintln(out, longDate(f.app.now()))
		fmt.Fprintln(out)
		if !view.HasRoster {
			writeNoSchedule(out)
			return nil
		}

		outcome, err := f.fill(ctx, view.Roster)
		if err != nil {
			return err
		}
		switch outcome {
		case fillRosterChanged:
			fmt.Fprintln(out, "\nJadwal berganti, formulir dimulai ulang.")
			continue
		case fillDiscarded:
			fmt.Fprintln(out, "\nAbsensi dibatalkan.")
			continue
		}

		again, err := f.confirm(ctx, "\nIsi Absen Baru? [y/N]: ", false)
		if err != nil {
			return err
		}
		if !again {
			return nil
		}
		if f.changed.Load() {
			continue
		}
		f.app.session.Reset()
	}
}

// fill walks the roster once and submits the result.
func (f *form) fill(ctx context.Context, roster domain.Roster) (fillOutcome, error) {
	out := f.app.out
	session := f.app.session

	fmt.Fprintf(out, "Jadwal: %s\n", roster.Title)
	fmt.Fprintln(out, "Status: H = Hadir, I = Izin, S = Sakit, A = Alpa")

	for i, member := range roster.Members {
		for {
			if f.changed.Load() {
				return fillRosterChanged, nil
			}
			fmt.Fprintf(out, "%d. %s: ", i+1, member)
			line, err := f.in.read(ctx)
			if err != nil {
				return 0, err
			}
			status, err := domain.ParseStatus(line)
			if err != nil {
				fmt.Fprintln(out, "   Status tidak dikenal, pilih H, I, S, atau A.")
				continue
			}
			if err := session.SetStatus(member, status); err != nil {
				if errors.Is(err, domain.ErrUnknownMember) || errors.Is(err, domain.ErrNoSchedule) {
					return fillRosterChanged, nil
				}
				return 0, err
			}
			break
		}

		if session.NotesEnabled(member) {
			fmt.Fprint(out, "   Catatan (kosongkan jika tidak ada): ")
			line, err := f.in.read(ctx)
			if err != nil {
				return 0, err
			}
			if err := session.SetNotes(member, line); err != nil {
				return fillRosterChanged, nil
			}
		}
	}

	fmt.Fprint(out, "Hasil Prelek (Rp): ")
	line, err := f.in.read(ctx)
	if err != nil {
		return 0, err
	}
	if err := session.SetPrelek(line); err != nil {
		return fillRosterChanged, nil
	}

	for {
		if f.changed.Load() {
			return fillRosterChanged, nil
		}
		ok, err := f.confirm(ctx, "Kirim absensi? [Y/n]: ", true)
		if err != nil {
			return 0, err
		}
		if !ok {
			session.Reset()
			return fillDiscarded, nil
		}

		analysis, err := session.Submit(ctx)
		switch {
		case err == nil:
			fmt.Fprintln(out, "\nAbsensi berhasil dikirim.")
			writeAnalysis(out, roster.Title, analysis)
			return fillSubmitted, nil
		case errors.Is(err, domain.ErrIncompleteSubmission):
			fmt.Fprintln(out, "Harap isi semua status kehadiran.")
			return fillRosterChanged, nil
		case errors.Is(err, domain.ErrNoSchedule), errors.Is(err, domain.ErrAlreadySubmitted):
			return fillRosterChanged, nil
		}

		f.app.logger.Warn("submission failed, offering retry", zap.Error(err))
		fmt.Fprintf(out, "Gagal menyimpan absensi: %v\n", err)
	}
}

func (f *form) confirm(ctx context.Context, prompt string, def bool) (bool, error) {
	for {
		fmt.Fprint(f.app.out, prompt)
		line, err := f.in.read(ctx)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(line) {
		case "":
			return def, nil
		case "y", "ya", "yes":
			return true, nil
		case "n", "t", "tidak", "no":
			return false, nil
		}
	}
}
