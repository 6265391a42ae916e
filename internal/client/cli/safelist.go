package cli

import (
	"context"
	"errors"
	"strings"
)

var ErrSafeListUsage = errors.New("usage: safe [add|rm <item>]")

// SafeList shows the safe-list, or edits it with "add <item>" and
// "rm <item>". Items may contain spaces.
func (a *App) SafeList(ctx context.Context, args []string) error {
	if len(args) == 0 {
		items := a.safeList.Items()
		if len(items) == 0 {
			a.println(mutedStyle.Render("Safe-list is empty"))
			return nil
		}
		a.println(titleStyle.Render("Safe-list"))
		for _, it := range items {
			a.println("  " + it)
		}
		return nil
	}

	item := strings.Join(args[1:], " ")
	if item == "" {
		a.println(renderError(ErrSafeListUsage))
		return ErrSafeListUsage
	}

	switch args[0] {
	case "add":
		if a.safeList.Add(ctx, item) {
			a.println(okStyle.Render("Added " + item))
		} else {
			a.println(mutedStyle.Render(item + " is already listed"))
		}
	case "rm", "remove":
		if a.safeList.Remove(ctx, item) {
			a.println(okStyle.Render("Removed " + item))
		} else {
			a.println(mutedStyle.Render(item + " is not listed"))
		}
	default:
		a.println(renderError(ErrSafeListUsage))
		return ErrSafeListUsage
	}
	return nil
}
