package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gastrolog/internal/client/syncengine"
)

var ErrEmptyToken = errors.New("access token must not be empty")

// Login reads the access and refresh tokens without echo and switches the
// session to their identity.
func (a *App) Login(ctx context.Context) error {
	access, err := GetSecret("- Access token", a.out)
	if err != nil {
		a.println(renderError(err))
		return err
	}
	if access == "" {
		a.println(renderError(ErrEmptyToken))
		return ErrEmptyToken
	}
	refresh, err := GetSecret("- Refresh token (optional)", a.out)
	if err != nil {
		a.println(renderError(err))
		return err
	}

	id, err := a.session.Login(ctx, access, refresh)
	if err != nil {
		a.log.Error(ctx, "login failed", "err", err)
		a.println(renderError(err))
		return err
	}
	a.println(okStyle.Render("Signed in as " + id))
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		a.println(renderError(err))
		return err
	}
	a.println(okStyle.Render("Signed out. Showing local records."))
	return nil
}

// Sync forces a new reconciliation pass.
func (a *App) Sync(ctx context.Context) error {
	if !a.isLoggedIn() {
		a.println(mutedStyle.Render("Not signed in; records stay on this device."))
		return nil
	}
	a.engine.Resync(ctx)
	a.println(mutedStyle.Render("Sync started"))
	return nil
}

func (a *App) Status(ctx context.Context) error {
	st := a.engine.Status()
	who := st.Identity
	if who == "" {
		who = "not signed in"
	}
	a.println(fmt.Sprintf("User:    %s", who))
	a.println(fmt.Sprintf("Sync:    %s", st.State))
	a.println(fmt.Sprintf("Records: %d (%d unsynced)", st.Total, st.Pending))
	if st.State == syncengine.StateFailed && !st.RetryAt.IsZero() {
		a.println(fmt.Sprintf("Retry:   %s", st.RetryAt.Local().Format("15:04:05")))
	}
	return nil
}
