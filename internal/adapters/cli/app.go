package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/tanjung-residence/siskamling/attendance-service/internal/core/ports"
	"github.com/tanjung-residence/siskamling/attendance-service/internal/core/services"
)

// ErrUsage marks a command line that could not be parsed.
var ErrUsage = errors.New("usage error")

const appTitle = "Absensi Siskamling Blok H Tanjung Residence"

const usage = `Usage: siskamling <command> [flags]

Commands:
  today                         show the roster whose form is due today
  form                          fill in today's attendance interactively
  submit --status NAME=STATUS   submit today's attendance in one go
         [--note NAME=TEXT] [--prelek AMOUNT]
  recap  [--schedule TITLE] [--json]
                                list past submissions, most recent first
  export --out FILE [--schedule TITLE]
                                write the recap to an .xlsx workbook
  health                        check the submission store

STATUS is one of Hadir, Izin, Sakit, Alpa (or H, I, S, A).
`

type Deps struct {
	Session  ports.AttendanceService
	Recap    ports.RecapService
	Resolver *services.ScheduleResolver
	Watcher  *services.DateWatcher
	Store    ports.KeyValueStore
	Log      ports.SubmissionLog
	Clock    ports.Clock
	Location *time.Location
	Logger   *zap.Logger
	In       io.Reader
	Out      io.Writer
}

// App dispatches command lines to the attendance core.
type App struct {
	session  ports.AttendanceService
	recap    ports.RecapService
	resolver *services.ScheduleResolver
	watcher  *services.DateWatcher
	store    ports.KeyValueStore
	log      ports.SubmissionLog
	clock    ports.Clock
	loc      *time.Location
	logger   *zap.Logger
	in       io.Reader
	out      io.Writer
}

func New(d Deps) *App {
	loc := d.Location
	if loc == nil {
		loc = time.Local
	}
	return &App{
		session:  d.Session,
		recap:    d.Recap,
		resolver: d.Resolver,
		watcher:  d.Watcher,
		store:    d.Store,
		log:      d.Log,
		clock:    d.Clock,
		loc:      loc,
		logger:   d.Logger.Named("cli"),
		in:       d.In,
		out:      d.Out,
	}
}

func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(a.out, usage)
		return ErrUsage
	}

	cmd, rest := args[0], args[1:]
	a.logger.Debug("running command", zap.String("command", cmd), zap.Strings("args", rest))

	switch cmd {
	case "today":
		return a.runToday()
	case "form":
		return a.runForm(ctx)
	case "submit":
		return a.runSubmit(ctx, rest)
	case "recap":
		return a.runRecap(ctx, rest)
	case "export":
		return a.runExport(ctx, rest)
	case "health":
		return a.runHealth(ctx)
	case "help", "-h", "--help":
		fmt.Fprint(a.out, usage)
		return nil
	}
	fmt.Fprintf(a.out, "unknown command %q\n\n%s", cmd, usage)
	return ErrUsage
}

func (a *App) now() time.Time {
	return a.clock.Now().In(a.loc)
}

func (a *App) runToday() error {
	fmt.Fprintln(a.out, appTitle)
	fmt.Fprintln(a.out, longDate(a.now()))
	fmt.Fprintln(a.out)

	roster, ok := a.resolver.Resolve(a.now())
	if !ok {
		writeNoSchedule(a.out)
		return nil
	}
	fmt.Fprintf(a.out, "Jadwal: %s\n", roster.Title)
	for i, m := range roster.Members {
		fmt.Fprintf(a.out, "  %d. %s\n", i+1, m)
	}
	return nil
}
