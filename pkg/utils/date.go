package utils

import (
	"strconv"
	"time"
)

func ParseDate(dateStr string) (time.Time, error) {
	return time.Parse("2006-01-02", dateStr)
}

func FormatDate(date time.Time) string {
	return date.Format("2006-01-02")
}

// FiscalYearLabel renders a fiscal year as the as-of label shown to API consumers.
func FiscalYearLabel(year int) string {
	return strconv.Itoa(year)
}
