package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gastrolog/internal/client/stats"
)

var (
	ErrMissingID     = errors.New("usage: delete <id>")
	ErrRecordMissing = errors.New("no such record")
)

func (a *App) List(ctx context.Context) error {
	logs := a.engine.Logs()
	if len(logs) == 0 {
		a.println(mutedStyle.Render("No records yet. Use 'add' to log a meal."))
		return nil
	}
	for _, r := range logs {
		a.println(renderRecord(r, a.safeList.Filter))
	}
	return nil
}

// Day lists the records of one date; no argument means today.
func (a *App) Day(ctx context.Context, args []string) error {
	date, err := ParseDate(strings.Join(args, " "), a.now())
	if err != nil {
		a.println(renderError(err))
		return err
	}

	logs := a.engine.LogsByDate(date)
	a.println(titleStyle.Render(date))
	if len(logs) == 0 {
		a.println(mutedStyle.Render("  nothing logged"))
		return nil
	}
	for _, r := range logs {
		a.println(renderRecord(r, a.safeList.Filter))
	}
	return nil
}

// Calendar prints a month grid marking days with records.
func (a *App) Calendar(ctx context.Context, args []string) error {
	var text string
	if len(args) > 0 {
		text = args[0]
	}
	year, month, err := ParseMonth(text, a.now())
	if err != nil {
		a.println(renderError(err))
		return err
	}
	a.println(renderCalendar(stats.Month(a.engine.Logs(), year, month)))
	return nil
}

// Stats prints the ingredient ranking with safe-list items excluded.
func (a *App) Stats(ctx context.Context) error {
	logs := a.engine.Logs()
	now := a.now()
	ranking := stats.Ranking(logs, a.safeList.Filter, stats.DefaultTop)
	a.println(renderRanking(ranking, stats.MonthCount(logs, now.Year(), now.Month()), len(logs)))
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.println(renderError(ErrMissingID))
		return ErrMissingID
	}
	id := args[0]
	if !Confirm(a.reader, fmt.Sprintf("Delete %s?", id), false, a.out) {
		return nil
	}
	if !a.engine.Delete(ctx, id) {
		err := fmt.Errorf("%w: %s", ErrRecordMissing, id)
		a.println(renderError(err))
		return err
	}
	a.println(okStyle.Render("Deleted"))
	return nil
}
