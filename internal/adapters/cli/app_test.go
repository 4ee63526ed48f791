package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap/zaptest"

	"github.com/tanjung-residence/siskamling/attendance-service/internal/adapters/cli"
	"github.com/tanjung-residence/siskamling/attendance-service/internal/adapters/export"
	"github.com/tanjung-residence/siskamling/attendance-service/internal/adapters/repository"
	"github.com/tanjung-residence/siskamling/attendance-service/internal/core/domain"
	"github.com/tanjung-residence/siskamling/attendance-service/internal/core/services"
	"github.com/tanjung-residence/siskamling/attendance-service/test/mocks"
)

// Tuesday morning, so the active roster is Monday night's.
var tuesday = time.Date(2026, 10, 20, 6, 30, 0, 0, time.UTC)

// lockedBuffer lets a test read the output while the form is still writing.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *lockedBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return bytes.Clone(b.buf.Bytes())
}

func (b *lockedBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Reset()
}

type harness struct {
	app     *cli.App
	out     *lockedBuffer
	store   *mocks.MockKeyValueStore
	clock   *mocks.FixedClock
	watcher *services.DateWatcher
}

func newHarness(t *testing.T, now time.Time, input string) *harness {
	t.Helper()
	return newHarnessWithInput(t, now, strings.NewReader(input))
}

func newHarnessWithInput(t *testing.T, now time.Time, in io.Reader) *harness {
	t.Helper()
	logger := zaptest.NewLogger(t)

	store := mocks.NewMockKeyValueStore()
	log := repository.NewKVSubmissionLog(store, "", time.Second, logger)
	clock := mocks.NewFixedClock(now)
	table := mocks.CreateTestRosterTable()
	resolver := services.NewScheduleResolver(table, time.UTC)

	var active *domain.Roster
	if r, ok := resolver.Resolve(now); ok {
		active = &r
	}
	session := services.NewAttendanceSession(active, log, clock, logger)

	watcher := services.NewDateWatcher(resolver, session, clock, time.Hour, logger)
	out := &lockedBuffer{}
	app := cli.New(cli.Deps{
		Session:  session,
		Recap:    services.NewRecapService(log, table, logger),
		Resolver: resolver,
		Watcher:  watcher,
		Store:    store,
		Log:      log,
		Clock:    clock,
		Location: time.UTC,
		Logger:   logger,
		In:       in,
		Out:      out,
	})
	return &harness{app: app, out: out, store: store, clock: clock, watcher: watcher}
}

func (h *harness) run(args ...string) error {
	h.out.Reset()
	return h.app.Run(context.Background(), args)
}

func mondayStatuses(status string) []string {
	var args []string
	for _, m := range []string{"Bp Aris H01", "Bp Asep H03", "Bp Iyeng H04", "Bp Yayan", "Bp Erik"} {
		args = append(args, "--status", m+"="+status)
	}
	return args
}

func TestApp_Usage(t *testing.T) {
	h := newHarness(t, tuesday, "")

	assert.ErrorIs(t, h.run(), cli.ErrUsage)
	assert.ErrorIs(t, h.run("dance"), cli.ErrUsage)
	assert.Contains(t, h.out.String(), "unknown command")
	assert.NoError(t, h.run("help"))
}

func TestApp_Today(t *testing.T) {
	h := newHarness(t, tuesday, "")

	require.NoError(t, h.run("today"))

	out := h.out.String()
	assert.Contains(t, out, "Selasa, 20 Oktober 2026")
	assert.Contains(t, out, "Jadwal: SENIN MALAM SELASA")
	assert.Contains(t, out, "1. Bp Aris H01")
	assert.Contains(t, out, "5. Bp Erik")
}

func TestApp_SubmitAndRecap(t *testing.T) {
	h := newHarness(t, tuesday, "")

	args := append([]string{"submit"}, mondayStatuses("Hadir")...)
	args = append(args,
		"--status", "Bp Yayan=Izin",
		"--note", "Bp Yayan=diganti Bp Dodi",
		"--status", "Bp Erik=S",
		"--prelek", "75000",
	)
	require.NoError(t, h.run(args...))

	out := h.out.String()
	assert.Contains(t, out, "Absensi berhasil dikirim.")
	assert.Contains(t, out, "Hadir  : 3")
	assert.Contains(t, out, "Izin   : 1")
	assert.Contains(t, out, "Sakit  : 1")
	assert.Contains(t, out, "Prelek : Rp75.000")
	assert.Contains(t, out, "- Bp Yayan: diganti Bp Dodi")

	raw, ok := h.store.Value(repository.DefaultLogKey)
	require.True(t, ok)
	records, err := repository.DecodeLog(raw)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "SENIN MALAM SELASA", records[0].ScheduleTitle)

	require.NoError(t, h.run("recap"))
	out = h.out.String()
	assert.Contains(t, out, "SENIN MALAM SELASA")
	assert.Contains(t, out, "Selasa, 20 Oktober 2026 06.30")
	assert.Contains(t, out, "Total 1 pengiriman")
	assert.NotContains(t, out, "Data Tidak Ditemukan")

	require.NoError(t, h.run("recap", "--schedule", "RABU MALAM KAMIS"))
	assert.Contains(t, h.out.String(), "Data Tidak Ditemukan")
}

func TestApp_SubmitIncomplete(t *testing.T) {
	h := newHarness(t, tuesday, "")

	err := h.run("submit", "--status", "Bp Aris H01=Hadir")

	assert.ErrorIs(t, err, domain.ErrIncompleteSubmission)
	assert.Contains(t, h.out.String(), "Harap isi semua status kehadiran.")
	assert.Contains(t, h.out.String(), "- Bp Erik")
	assert.Empty(t, h.store.SetCalls)
}

func TestApp_SubmitRejectsBadInput(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{
			name:    "note_for_present_member",
			args:    append(mondayStatuses("Hadir"), "--note", "Bp Erik=datang telat"),
			wantErr: nil,
		},
		{
			name:    "unknown_member",
			args:    []string{"--status", "Bp Nobody=Hadir"},
			wantErr: domain.ErrUnknownMember,
		},
		{
			name:    "unknown_status",
			args:    []string{"--status", "Bp Erik=Libur"},
			wantErr: domain.ErrInvalidStatus,
		},
		{
			name:    "malformed_pair",
			args:    []string{"--status", "Bp Erik"},
			wantErr: cli.ErrUsage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, tuesday, "")
			err := h.run(append([]string{"submit"}, tt.args...)...)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Empty(t, h.store.SetCalls)
		})
	}
}

func TestApp_SubmitStoreFailure(t *testing.T) {
	h := newHarness(t, tuesday, "")
	h.store.SetError = errors.New("disk full")

	err := h.run(append([]string{"submit"}, mondayStatuses("Alpa")...)...)

	assert.ErrorContains(t, err, "disk full")
	assert.NotContains(t, h.out.String(), "berhasil")
}

func TestApp_RecapMalformedLogShowsEmpty(t *testing.T) {
	h := newHarness(t, tuesday, "")
	h.store.Seed(repository.DefaultLogKey, "{broken")

	require.NoError(t, h.run("recap"))
	assert.Contains(t, h.out.String(), "Data Tidak Ditemukan")
}

func TestApp_RecapJSON(t *testing.T) {
	h := newHarness(t, tuesday, "")
	require.NoError(t, h.run(append([]string{"submit"}, mondayStatuses("Hadir")...)...))

	require.NoError(t, h.run("recap", "--json"))

	var got []map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(h.out.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Contains(t, got[0], "scheduleTitle")
	assert.Contains(t, got[0], "analysis")
}

func TestApp_RecapUnknownSchedule(t *testing.T) {
	h := newHarness(t, tuesday, "")
	assert.ErrorIs(t, h.run("recap", "--schedule", "JUMAT KLIWON"), cli.ErrUsage)
	assert.Contains(t, h.out.String(), "SENIN MALAM SELASA")
}

func TestApp_Export(t *testing.T) {
	h := newHarness(t, tuesday, "")
	require.NoError(t, h.run(append([]string{"submit", "--prelek", "20000"}, mondayStatuses("Hadir")...)...))

	path := filepath.Join(t.TempDir(), "out", "rekap.xlsx")
	require.NoError(t, h.run("export", "--out", path))
	assert.Contains(t, h.out.String(), "1 pengiriman diekspor")

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(export.RecapSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "SENIN MALAM SELASA", rows[1][0])

	assert.ErrorIs(t, h.run("export"), cli.ErrUsage)
}

func TestApp_Health(t *testing.T) {
	h := newHarness(t, tuesday, "")
	require.NoError(t, h.run("health"))

	var resp cli.HealthResponse
	require.NoError(t, json.Unmarshal(h.out.Bytes(), &resp))
	assert.Equal(t, "UP", resp.Status)
	assert.Equal(t, "UP", resp.Checks["store"].Status)
	assert.Equal(t, "0 submissions", resp.Checks["submissions"].Message)

	h.store.PingError = errors.New("refused")
	h.store.Seed(repository.DefaultLogKey, "nope")
	assert.ErrorIs(t, h.run("health"), cli.ErrUnhealthy)

	require.NoError(t, json.Unmarshal(h.out.Bytes(), &resp))
	assert.Equal(t, "DOWN", resp.Status)
	assert.Equal(t, "DOWN", resp.Checks["store"].Status)
	assert.Equal(t, "DOWN", resp.Checks["submissions"].Status)
}

func TestApp_Form(t *testing.T) {
	input := strings.Join([]string{
		"H",         // Bp Aris H01
		"x", "h",    // Bp Asep H03, first answer rejected
		"I",         // Bp Iyeng H04
		"ada acara", // note
		"sakit",     // Bp Yayan
		"",          // no note
		"A",         // Bp Erik
		"",          // no note
		"50000",     // prelek
		"",          // submit
		"n",         // no new form
	}, "\n") + "\n"
	h := newHarness(t, tuesday, input)

	require.NoError(t, h.run("form"))

	out := h.out.String()
	assert.Contains(t, out, "Jadwal: SENIN MALAM SELASA")
	assert.Contains(t, out, "Status tidak dikenal")
	assert.Contains(t, out, "Absensi berhasil dikirim.")
	assert.Contains(t, out, "Prelek : Rp50.000")
	assert.Contains(t, out, "- Bp Iyeng H04: ada acara")

	raw, ok := h.store.Value(repository.DefaultLogKey)
	require.True(t, ok)
	records, err := repository.DecodeLog(raw)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, domain.StatusCounts{Present: 2, Excused: 1, Sick: 1, Absent: 1}, records[0].Analysis().StatusCounts)
}

func TestApp_FormEndOfInput(t *testing.T) {
	h := newHarness(t, tuesday, "H\nH\n")

	require.NoError(t, h.run("form"))
	assert.Empty(t, h.store.SetCalls)
}

func TestApp_FormDiscardThenResubmit(t *testing.T) {
	answers := "H\nH\nH\nH\nH\n\n"
	input := answers + "n\n" + answers + "y\nn\n"
	h := newHarness(t, tuesday, input)

	require.NoError(t, h.run("form"))

	assert.Contains(t, h.out.String(), "Absensi dibatalkan.")
	assert.Len(t, h.store.SetCalls, 1)
}

func TestApp_FormRestartsWhenRosterChanges(t *testing.T) {
	pr, pw := io.Pipe()
	h := newHarnessWithInput(t, tuesday, pr)

	errc := make(chan error, 1)
	go func() { errc <- h.app.Run(context.Background(), []string{"form"}) }()

	send := func(lines ...string) {
		t.Helper()
		for _, l := range lines {
			_, err := io.WriteString(pw, l+"\n")
			require.NoError(t, err)
		}
	}
	waitFor := func(s string) {
		t.Helper()
		require.Eventually(t, func() bool { return strings.Contains(h.out.String(), s) },
			5*time.Second, 10*time.Millisecond, "waiting for %q", s)
	}

	send("H")
	waitFor("2. Bp Asep H03: ")

	// midnight passes while the form waits for the second member
	h.clock.Set(tuesday.Add(24 * time.Hour))
	require.True(t, h.watcher.Check())

	// the pending answer lands on the old prompt and triggers the restart
	send("H")
	waitFor("Jadwal berganti, formulir dimulai ulang.")
	waitFor("Jadwal: SELASA MALAM RABU")

	send("H", "H", "A", "", "10000", "", "n")
	require.NoError(t, pw.Close())

	select {
	case err := <-errc:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("form did not return")
	}

	raw, ok := h.store.Value(repository.DefaultLogKey)
	require.True(t, ok)
	records, err := repository.DecodeLog(raw)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "SELASA MALAM RABU", records[0].ScheduleTitle)
	assert.Equal(t, domain.StatusCounts{Present: 2, Absent: 1}, records[0].Analysis().StatusCounts)
}
