package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/savora/core/internal/app"
	"github.com/savora/core/internal/domain"
	"github.com/savora/core/internal/usecase"
)

func newRecipesCommand(ctx *commandContext) *cobra.Command {
	recipesCmd := &cobra.Command{
		Use:   "recipes",
		Short: "Browse the recipe catalog",
	}

	recipesCmd.AddCommand(newRecipesListCommand(ctx))
	recipesCmd.AddCommand(newRecipesSearchCommand(ctx))
	recipesCmd.AddCommand(newRecipesFindCommand(ctx))
	recipesCmd.AddCommand(newRecipesShowCommand(ctx))

	return recipesCmd
}

func newRecipesListCommand(ctx *commandContext) *cobra.Command {
	var page int
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List one page of the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(cmd.Context(), func(a *app.App) error {
				if all {
					recipes, err := loadAll(cmd.Context(), a.Recipes.NewCatalogPaginator())
					if err != nil {
						return err
					}
					return printRecipes(cmd.OutOrStdout(), recipes, a.Favorites, "No recipes found")
				}

				result, err := a.Recipes.Browse(cmd.Context(), page)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(result.Recipes) == 0 {
					fmt.Fprintln(out, "No recipes found")
					return nil
				}
				fmt.Fprint(out, renderRecipeTable(result.Recipes, a.Favorites))
				if result.HasMore {
					fmt.Fprintf(out, "More recipes: savora recipes list --page %d\n", page+1)
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&page, "page", "p", 0, "Page number, starting at 0")
	cmd.Flags().BoolVar(&all, "all", false, "Load every page of the catalog")
	return cmd
}

func newRecipesSearchCommand(ctx *commandContext) *cobra.Command {
	var skip, limit int
	var all bool

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search titles, ingredients and instructions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return ctx.withApp(cmd.Context(), func(a *app.App) error {
				noMatch := fmt.Sprintf("No recipes match %q", query)
				if all {
					results, err := loadAll(cmd.Context(), a.Recipes.NewSearchPaginator(query))
					if err != nil {
						return err
					}
					return printRecipes(cmd.OutOrStdout(), results, a.Favorites, noMatch)
				}

				if limit <= 0 {
					limit = a.Recipes.PageSize()
				}
				results, err := a.Recipes.Search(cmd.Context(), query, skip, limit)
				if err != nil {
					return err
				}
				return printRecipes(cmd.OutOrStdout(), results, a.Favorites, noMatch)
			})
		},
	}

	cmd.Flags().IntVar(&skip, "skip", 0, "Number of matches to skip")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum matches to show (default page size)")
	cmd.Flags().BoolVar(&all, "all", false, "Load every page of matches")
	return cmd
}

func newRecipesShowCommand(ctx *commandContext) *cobra.Command {
	var servings int

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a recipe scaled to a number of servings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if servings < 0 {
				return fmt.Errorf("%w: servings must not be negative", domain.ErrInvalidServings)
			}
			return ctx.withApp(cmd.Context(), func(a *app.App) error {
				detail, err := a.Recipes.Detail(cmd.Context(), args[0], servings)
				if err != nil {
					return err
				}
				printRecipeDetail(cmd.OutOrStdout(), detail)
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&servings, "servings", "s", 0, "Number of servings (default 4)")
	return cmd
}

// loadAll drives paginator page by page until it stops issuing fetches
func loadAll(ctx context.Context, paginator *usecase.Paginator[domain.Recipe]) ([]domain.Recipe, error) {
	for {
		issued, err := paginator.OnSentinelVisible(ctx)
		if err != nil {
			return nil, err
		}
		if !issued {
			return paginator.Items(), nil
		}
	}
}

func printRecipes(out io.Writer, recipes []domain.Recipe, favorites *usecase.FavoritesStore, empty string) error {
	if len(recipes) == 0 {
		fmt.Fprintln(out, empty)
		return nil
	}
	fmt.Fprint(out, renderRecipeTable(recipes, favorites))
	return nil
}

func renderRecipeTable(recipes []domain.Recipe, favorites *usecase.FavoritesStore) string {
	rows := make([][]string, 0, len(recipes))
	for _, recipe := range recipes {
		source := "catalog"
		if recipe.IsGenerated() {
			source = "generated"
		}
		rows = append(rows, []string{
			recipe.ID,
			recipe.Title,
			strconv.Itoa(len(recipe.Ingredients)),
			source,
			yesNo(favorites.IsFavorite(recipe.ID)),
		})
	}
	return renderTable(
		[]string{"ID", "Title", "Ingredients", "Source", "Favorite"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
	)
}

func printRecipeDetail(out io.Writer, detail *domain.RecipeDetail) {
	favorite := ""
	if detail.IsFavorite {
		favorite = " (favorite)"
	}
	fmt.Fprintf(out, "%s%s\n", detail.Recipe.Title, favorite)
	fmt.Fprintf(out, "Servings: %d (original %d)\n\n", detail.Servings, detail.OriginalServings)

	fmt.Fprintln(out, "Ingredients:")
	for _, ingredient := range detail.ScaledIngredients {
		fmt.Fprintf(out, "  - %s\n", ingredient)
	}

	if len(detail.Steps) > 0 {
		fmt.Fprintln(out, "\nSteps:")
		for i, step := range detail.Steps {
			fmt.Fprintf(out, "  %d. %s\n", i+1, step)
		}
	}
}
