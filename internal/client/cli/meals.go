package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/rlocatelli9/daily-diet-api/internal/client/api"
	"github.com/rlocatelli9/daily-diet-api/internal/filex"
	"github.com/rlocatelli9/daily-diet-api/internal/netx"
)

// now is a test seam for the default meal time.
var now = time.Now

func (a *App) Add(ctx context.Context) error {
	title, err := GetSimpleText(a.reader, "Title", a.out)
	if err != nil {
		return a.report(err)
	}
	description, err := GetSimpleText(a.reader, "Description (optional)", a.out)
	if err != nil {
		return a.report(err)
	}
	mealType, err := GetSimpleText(a.reader, "Type (breakfast, lunch, dinner, snack...)", a.out)
	if err != nil {
		return a.report(err)
	}
	dt, err := GetDateTime(a.reader, "Date and time, yyyy-mm-dd hh:mm (empty for now)", now(), a.out)
	if err != nil {
		return a.report(err)
	}
	inDiet, err := GetYesNo(a.reader, "Within the diet?", true, a.out)
	if err != nil {
		return a.report(err)
	}

	m := api.NewMeal{Title: title, Type: mealType, DateTime: dt, InDiet: inDiet}
	if description != "" {
		m.Description = &description
	}

	created, err := a.api.CreateMeal(ctx, m)
	if err != nil {
		return a.report(err)
	}
	fmt.Fprintf(a.out, "Meal %s saved\n", created.ID)
	return nil
}

func (a *App) List(ctx context.Context) error {
	meals, err := a.api.ListMeals(ctx)
	if err != nil {
		return a.report(err)
	}
	if len(meals) == 0 {
		fmt.Fprintln(a.out, "No meals yet")
		return nil
	}

	for _, m := range meals {
		mark := " "
		if m.InDiet {
			mark = "✓"
		}
		fmt.Fprintf(a.out, "%s  %s  [%s] %-10s %s\n", m.ID, m.DateTime.Local().Format("2006-01-02 15:04"), mark, m.Type, m.Title)
	}
	return nil
}

func (a *App) Metrics(ctx context.Context) error {
	m, err := a.api.Metrics(ctx)
	if err != nil {
		return a.report(err)
	}
	fmt.Fprintf(a.out, "Total: %d\nIn diet: %d\nOff diet: %d\nBest streak: %d\n", m.Total, m.In, m.Out, m.Sequence)
	return nil
}

func (a *App) Delete(ctx context.Context, id string) error {
	if err := a.api.DeleteMeal(ctx, id); err != nil {
		return a.report(err)
	}
	fmt.Fprintln(a.out, "Deleted", id)
	return nil
}

// Export asks the server for an export and downloads it into ExportDir.
func (a *App) Export(ctx context.Context) error {
	exp, err := a.api.Export(ctx)
	if err != nil {
		return a.report(err)
	}

	dir, err := filex.EnsureDir(a.config.ExportDir)
	if err != nil {
		return a.report(err)
	}

	path := filex.ExportFilePath(dir, exp.Key)
	n, err := netx.DownloadToFile(ctx, a.download, exp.URL, path)
	if err != nil {
		return a.report(err)
	}

	fmt.Fprintf(a.out, "Exported %d bytes to %s\n", n, path)
	return nil
}
