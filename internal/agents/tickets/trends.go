package tickets

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"
)

// Ticket is one row of the support-ticket export.
type Ticket struct {
	Created  time.Time
	Category string
}

// CategoryTrend is the week-over-week volume for one category. ThisWeek
// covers the seven days up to now, LastWeek the seven days before that.
type CategoryTrend struct {
	Category string
	ThisWeek int
	LastWeek int
}

// Delta returns the absolute week-over-week change.
func (t CategoryTrend) Delta() int {
	return t.ThisWeek - t.LastWeek
}

// ParseTickets reads a CSV export with a header row. The columns
// "created_at" and "category" are resolved by name; extra columns are
// ignored. Rows with an unparseable date are skipped.
func ParseTickets(r io.Reader) ([]Ticket, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	createdIdx, categoryIdx := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "created_at":
			createdIdx = i
		case "category":
			categoryIdx = i
		}
	}
	if createdIdx < 0 || categoryIdx < 0 {
		return nil, fmt.Errorf("CSV header must contain created_at and category columns")
	}

	var tickets []Ticket
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record: %w", err)
		}
		if len(record) <= createdIdx || len(record) <= categoryIdx {
			continue
		}

		created, err := parseDate(record[createdIdx])
		if err != nil {
			continue
		}

		category := strings.TrimSpace(record[categoryIdx])
		if category == "" {
			category = "uncategorized"
		}

		tickets = append(tickets, Ticket{Created: created, Category: category})
	}

	return tickets, nil
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}

// WeekOverWeek counts tickets per category for the current and previous
// seven-day windows relative to now. Categories seen in either window are
// returned, sorted by name. Tickets outside both windows are ignored.
func WeekOverWeek(tickets []Ticket, now time.Time) []CategoryTrend {
	weekAgo := now.AddDate(0, 0, -7)
	twoWeeksAgo := now.AddDate(0, 0, -14)

	thisWeek := make(map[string]int)
	lastWeek := make(map[string]int)
	for _, t := range tickets {
		switch {
		case !t.Created.Before(weekAgo) && t.Created.Before(now):
			thisWeek[t.Category]++
		case !t.Created.Before(twoWeeksAgo) && t.Created.Before(weekAgo):
			lastWeek[t.Category]++
		}
	}

	categories := make(map[string]bool)
	for c := range thisWeek {
		categories[c] = true
	}
	for c := range lastWeek {
		categories[c] = true
	}

	trends := make([]CategoryTrend, 0, len(categories))
	for c := range categories {
		trends = append(trends, CategoryTrend{
			Category: c,
			ThisWeek: thisWeek[c],
			LastWeek: lastWeek[c],
		})
	}
	sort.Slice(trends, func(i, j int) bool {
		return trends[i].Category < trends[j].Category
	})
	return trends
}

// renderTable formats the trend table for the terminal and the model
// prompt.
func renderTable(trends []CategoryTrend) string {
	var b strings.Builder
	b.WriteString("Category | Last week | This week | Delta\n")
	for _, t := range trends {
		fmt.Fprintf(&b, "%s | %d | %d | %+d\n", t.Category, t.LastWeek, t.ThisWeek, t.Delta())
	}
	return b.String()
}
