package cli

import (
	"context"

	"github.com/dmitrijs2005/gastrolog/internal/client/models"
	"github.com/dmitrijs2005/gastrolog/internal/client/services"
)

// Add walks the user through the log form: date, optional photo, memo,
// ingredients (analyzed or typed) and optional life data.
func (a *App) Add(ctx context.Context) error {
	draft, err := a.readDraft(ctx)
	if err != nil {
		a.println(renderError(err))
		return err
	}

	rec, err := a.engine.Add(ctx, draft)
	if err != nil {
		a.println(renderError(err))
		return err
	}

	a.println(okStyle.Render("Saved"))
	a.println(renderRecord(rec, a.safeList.Filter))
	return nil
}

func (a *App) readDraft(ctx context.Context) (models.Draft, error) {
	var d models.Draft

	text, err := GetSimpleText(a.reader, "- Date (YYYY-MM-DD, 'yesterday', empty for today)", a.out)
	if err != nil {
		return d, err
	}
	if d.Date, err = ParseDate(text, a.now()); err != nil {
		return d, err
	}

	path, err := GetSimpleText(a.reader, "- Photo path (optional)", a.out)
	if err != nil {
		return d, err
	}
	if path != "" {
		if d.Image, err = ReadImage(path); err != nil {
			return d, err
		}
	}

	if d.Memo, err = GetMultiline(a.reader, "- Memo (optional)", a.out); err != nil {
		return d, err
	}

	if d.Ingredients, err = a.readIngredients(ctx, d.Image, d.Memo); err != nil {
		return d, err
	}

	if Confirm(a.reader, "- Add sleep, medication, exercise and stress?", false, a.out) {
		if d.Life, err = a.readLife(); err != nil {
			return d, err
		}
	}

	if err := d.Validate(); err != nil {
		return d, err
	}
	return d, nil
}

// readIngredients offers analysis when signed in and there is something to
// analyze; a failed analysis falls back to manual entry.
func (a *App) readIngredients(ctx context.Context, image, memo string) ([]string, error) {
	if a.isLoggedIn() && (image != "" || memo != "") &&
		Confirm(a.reader, "- Analyze ingredients?", true, a.out) {
		res, err := a.analysis.Analyze(ctx, image, memo)
		if err == nil {
			a.println(renderAnalysis(res))
			return res.Ingredients, nil
		}
		a.println(renderError(err))
	}

	text, err := GetSimpleText(a.reader, "- Ingredients, comma separated (optional)", a.out)
	if err != nil {
		return nil, err
	}
	return ParseIngredients(text), nil
}

func (a *App) readLife() (*models.LifeData, error) {
	var l models.LifeData
	fields := []struct {
		prompt string
		dst    *string
	}{
		{"- Sleep time (e.g. 23:30-07:00)", &l.SleepTime},
		{"- Sleep quality", &l.SleepQuality},
		{"- Medication", &l.Medication},
		{"- Exercise", &l.Exercise},
		{"- Steps", &l.Steps},
	}
	for _, f := range fields {
		v, err := GetSimpleText(a.reader, f.prompt, a.out)
		if err != nil {
			return nil, err
		}
		*f.dst = v
	}

	text, err := GetSimpleText(a.reader, "- Stress 1-5 (optional)", a.out)
	if err != nil {
		return nil, err
	}
	if l.Stress, err = ParseStress(text); err != nil {
		return nil, err
	}

	if l == (models.LifeData{}) {
		return nil, nil
	}
	return &l, nil
}

// Analyze runs a standalone analysis without saving a record.
func (a *App) Analyze(ctx context.Context) error {
	if !a.isLoggedIn() {
		a.println(renderError(services.ErrSignInRequired))
		return services.ErrSignInRequired
	}

	path, err := GetSimpleText(a.reader, "- Photo path (optional)", a.out)
	if err != nil {
		return err
	}
	var image string
	if path != "" {
		if image, err = ReadImage(path); err != nil {
			a.println(renderError(err))
			return err
		}
	}
	memo, err := GetMultiline(a.reader, "- Memo (optional)", a.out)
	if err != nil {
		return err
	}

	res, err := a.analysis.Analyze(ctx, image, memo)
	if err != nil {
		a.println(renderError(err))
		return err
	}
	a.println(renderAnalysis(res))
	return nil
}
