package calculator

import (
	"strconv"
	"strings"
	"time"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

const secondsPerDay = 24 * 60 * 60

// TermsMode names the side of the terms/due-date pair edited last.
type TermsMode string

const (
	TermsDays TermsMode = "days"
	TermsDate TermsMode = "date"
)

// DueTerms is the payment terms pair: a number of days or a due date.
type DueTerms struct {
	Mode    TermsMode `json:"mode"`
	Days    string    `json:"days"`
	DueDate string    `json:"dueDate"`
}

// ResolveDueDate derives the other side of the pair from issued. Days before
// issued are clamped to zero. A blank or malformed driver yields blank terms.
func ResolveDueDate(issued time.Time, t DueTerms) DueTerms {
	issued = truncateDay(issued)

	if t.Mode == TermsDate {
		due, err := time.Parse(DateLayout, strings.TrimSpace(t.DueDate))
		if err != nil {
			return DueTerms{Mode: TermsDate}
		}
		if due.Before(issued) {
			due = issued
		}
		days := int((due.Unix() - issued.Unix()) / secondsPerDay)
		return DueTerms{Mode: TermsDate, Days: strconv.Itoa(days), DueDate: due.Format(DateLayout)}
	}

	days, err := strconv.Atoi(strings.TrimSpace(t.Days))
	if err != nil {
		return DueTerms{Mode: TermsDays}
	}
	if days < 0 {
		days = 0
	}
	return DueTerms{
		Mode:    TermsDays,
		Days:    strconv.Itoa(days),
		DueDate: issued.AddDate(0, 0, days).Format(DateLayout),
	}
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
