package server

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	reportingdomain "github.com/hli122/salesops-analytics-db/internal/reporting/domain"
)

const dateOnlyLayout = "2006-01-02"

// parseDateRange reads the required inclusive start_date/end_date pair.
func parseDateRange(c *gin.Context) (reportingdomain.DateRange, error) {
	start, err := parseRequiredDate(c.Query("start_date"), "start_date")
	if err != nil {
		return reportingdomain.DateRange{}, err
	}
	end, err := parseRequiredDate(c.Query("end_date"), "end_date")
	if err != nil {
		return reportingdomain.DateRange{}, err
	}
	if end.Before(start) {
		return reportingdomain.DateRange{}, newValidationError("end_date", "invalid_date_range", "end_date precedes start_date")
	}
	return reportingdomain.DateRange{Start: start, End: end}, nil
}

func parseRequiredDate(value, field string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, newValidationError(field, "required", "missing "+field)
	}
	parsed, err := time.Parse(dateOnlyLayout, trimmed)
	if err != nil {
		return time.Time{}, newValidationError(field, "invalid_date", "expected YYYY-MM-DD")
	}
	return time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC), nil
}

// parseBoundedFloat applies the default when absent and validates the range.
func parseBoundedFloat(value, field string, def, min, max float64) (float64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return def, nil
	}
	parsed, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, newValidationError(field, "invalid_number", "expected a number")
	}
	if parsed < min || parsed > max {
		return 0, newValidationError(field, "out_of_range", "value out of range")
	}
	return parsed, nil
}

func parseBoundedInt(value, field string, def, min, max int) (int, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return def, nil
	}
	parsed, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, newValidationError(field, "invalid_number", "expected an integer")
	}
	if parsed < min || parsed > max {
		return 0, newValidationError(field, "out_of_range", "value out of range")
	}
	return parsed, nil
}
