package cli

import (
	"context"

	"github.com/dmitrijs2005/storefront/internal/client/services"
)

// Products fetches the product list and prints it: "Loading..." while the
// request is in flight, then "Items: N" and one title per line in the
// order the catalog returned them. A fetch fault prints "Error: <text>".
func (a *App) Products(ctx context.Context) error {
	if !a.isLoggedIn() {
		a.printf("Please sign in first.\n")
		return nil
	}

	loader := services.NewProductLoader(a.catalog, a.log)
	defer loader.Unmount()

	loader.OnChange(func(s services.FetchState) {
		if s.Loading {
			a.printf("Loading...\n")
		}
	})
	loader.Mount(ctx)

	state, err := loader.Wait(ctx)
	if err != nil {
		return err
	}

	if state.Error != "" {
		a.printf("Error: %s\n", state.Error)
		return nil
	}

	a.printf("Items: %d\n", len(state.Items))
	for _, item := range state.Items {
		a.printf("%s\n", item.Title)
	}
	return nil
}
