package report

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// ParseReportFilter normalizes raw query values into a ReportFilter.
// Empty, malformed or out-of-range values are treated as absent.
func ParseReportFilter(month, year, categoryID string) ReportFilter {
	var filter ReportFilter

	if m, err := strconv.Atoi(strings.TrimSpace(month)); err == nil && m >= 1 && m <= 12 {
		filter.Month = &m
	}

	if y, err := strconv.Atoi(strings.TrimSpace(year)); err == nil && y >= 1 && y <= 9999 {
		filter.Year = &y
	}

	if id, err := uuid.Parse(strings.TrimSpace(categoryID)); err == nil {
		filter.CategoryID = &id
	}

	return filter
}
