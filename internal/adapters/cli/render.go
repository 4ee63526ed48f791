package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/tanjung-residence/siskamling/attendance-service/internal/adapters/format"
	"github.com/tanjung-residence/siskamling/attendance-service/internal/core/domain"
)

func longDate(t time.Time) string { return format.LongDate(t) }

func writeNoSchedule(w io.Writer) {
	fmt.Fprintln(w, "Jadwal Tidak Ditemukan")
	fmt.Fprintln(w, "Tidak ada jadwal siskamling yang terdaftar untuk hari ini.")
}

func writeCounts(w io.Writer, indent string, counts domain.StatusCounts, prelek float64) {
	for _, s := range domain.Statuses {
		fmt.Fprintf(w, "%s%-7s: %d\n", indent, s.Label(), counts.Count(s))
	}
	fmt.Fprintf(w, "%s%-7s: %s\n", indent, "Prelek", format.Rupiah(prelek))
}

func writeNotes(w io.Writer, indent string, notes []domain.MemberNote) {
	if len(notes) == 0 {
		return
	}
	fmt.Fprintf(w, "%sCatatan:\n", indent)
	for _, n := range notes {
		fmt.Fprintf(w, "%s  - %s: %s\n", indent, n.MemberName, n.Note)
	}
}

func writeAnalysis(w io.Writer, title string, a domain.Analysis) {
	fmt.Fprintf(w, "Analisis Kehadiran - %s\n", title)
	writeCounts(w, "  ", a.StatusCounts, a.PrelekResult)
	writeNotes(w, "  ", a.Notes)
}
