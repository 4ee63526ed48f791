// Package format renders amounts and dates the way the block's residents
// read them (Indonesian locale).
package format

import (
	"fmt"
	"math"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.Indonesian)

var weekdays = [...]string{"Minggu", "Senin", "Selasa", "Rabu", "Kamis", "Jumat", "Sabtu"}

var months = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// Rupiah formats an amount as "Rp75.000". Fractions are kept only when present.
func Rupiah(amount float64) string {
	if amount == math.Trunc(amount) {
		// past the int64 range %d would wrap around
		if math.Abs(amount) >= math.MaxInt64 {
			return printer.Sprintf("Rp%.0f", amount)
		}
		return printer.Sprintf("Rp%d", int64(amount))
	}
	return printer.Sprintf("Rp%.2f", amount)
}

// LongDate formats t as "Minggu, 18 Oktober 2026".
func LongDate(t time.Time) string {
	return fmt.Sprintf("%s, %d %s %d", weekdays[t.Weekday()], t.Day(), months[t.Month()-1], t.Year())
}

// DateTime formats t as "Minggu, 18 Oktober 2026 06.30".
func DateTime(t time.Time) string {
	return fmt.Sprintf("%s %02d.%02d", LongDate(t), t.Hour(), t.Minute())
}
