// Package stats derives the ingredient ranking and calendar views from a
// snapshot of the log collection.
package stats

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dmitrijs2005/gastrolog/internal/client/models"
)

const DefaultTop = 5

// Filter drops ingredients the user considers safe. A nil Filter keeps
// everything.
type Filter func(ingredients []string) []string

type Count struct {
	Name  string
	Count int
}

// Ranking counts flagged ingredients over logs, most frequent first, ties
// by name. n <= 0 means DefaultTop.
func Ranking(logs []models.LogRecord, filter Filter, n int) []Count {
	if n <= 0 {
		n = DefaultTop
	}
	counts := map[string]int{}
	for _, r := range logs {
		ings := r.Ingredients
		if filter != nil {
			ings = filter(ings)
		}
		for _, ing := range ings {
			counts[ing]++
		}
	}

	out := make([]Count, 0, len(counts))
	for name, c := range counts {
		out = append(out, Count{Name: name, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// MonthCount is the number of records dated in the given month.
func MonthCount(logs []models.LogRecord, year int, month time.Month) int {
	prefix := monthPrefix(year, month)
	n := 0
	for _, r := range logs {
		if strings.HasPrefix(r.Date, prefix) {
			n++
		}
	}
	return n
}

type Day struct {
	Day   int
	Date  string
	Count int
}

// MonthGrid is a Sunday-first calendar page. Leading is the number of
// blank cells before the 1st.
type MonthGrid struct {
	Year    int
	Month   time.Month
	Leading int
	Days    []Day
}

func Month(logs []models.LogRecord, year int, month time.Month) MonthGrid {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	days := first.AddDate(0, 1, -1).Day()

	perDate := map[string]int{}
	prefix := monthPrefix(year, month)
	for _, r := range logs {
		if strings.HasPrefix(r.Date, prefix) {
			perDate[r.Date]++
		}
	}

	g := MonthGrid{Year: year, Month: month, Leading: int(first.Weekday()), Days: make([]Day, days)}
	for i := range g.Days {
		date := fmt.Sprintf("%s-%02d", prefix, i+1)
		g.Days[i] = Day{Day: i + 1, Date: date, Count: perDate[date]}
	}
	return g
}

// Weeks splits the grid into rows of seven cells; blank cells are nil.
func (g MonthGrid) Weeks() [][]*Day {
	var weeks [][]*Day
	week := make([]*Day, 0, 7)
	for i := 0; i < g.Leading; i++ {
		week = append(week, nil)
	}
	for i := range g.Days {
		week = append(week, &g.Days[i])
		if len(week) == 7 {
			weeks = append(weeks, week)
			week = make([]*Day, 0, 7)
		}
	}
	if len(week) > 0 {
		for len(week) < 7 {
			week = append(week, nil)
		}
		weeks = append(weeks, week)
	}
	return weeks
}

func monthPrefix(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, int(month))
}
