package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/savora/core/internal/app"
	"github.com/savora/core/internal/domain"
	"github.com/savora/core/internal/infrastructure/camera"
	"github.com/savora/core/internal/usecase"
)

type generateOptions struct {
	photo    string
	withImg  bool
	save     bool
	favorite bool
}

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var opts generateOptions

	cmd := &cobra.Command{
		Use:   "generate [ingredient]...",
		Short: "Generate a recipe from ingredients",
		Long: "Generate a recipe from a list of ingredients. Arguments may be separate\n" +
			"words or a single comma separated list. With --photo, ingredients found\n" +
			"in the image are merged into the list first.",
		Example: "  savora generate chicken rice\n" +
			"  savora generate \"chicken, rice, spring onion\" --save --favorite\n" +
			"  savora generate --photo fridge.jpg",
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.favorite {
				opts.save = true
			}
			return ctx.withApp(cmd.Context(), func(a *app.App) error {
				return runGenerate(cmd.Context(), cmd.OutOrStdout(), a, args, opts)
			})
		},
	}

	cmd.Flags().StringVar(&opts.photo, "photo", "", "Read extra ingredients from a photo")
	cmd.Flags().BoolVar(&opts.withImg, "image", false, "Generate an image for the recipe")
	cmd.Flags().BoolVar(&opts.save, "save", false, "Save the recipe locally")
	cmd.Flags().BoolVar(&opts.favorite, "favorite", false, "Save the recipe and add it to favorites")
	return cmd
}

func runGenerate(ctx context.Context, out io.Writer, a *app.App, args []string, opts generateOptions) error {
	ingredients := usecase.ParseIngredientInput(strings.Join(args, "\n"))

	if opts.photo != "" {
		merged, err := ingredientsFromPhoto(ctx, a, opts.photo, ingredients)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Ingredients: %s\n\n", strings.Join(merged, ", "))
		ingredients = merged
	}

	generated, err := a.Recipes.Generate(ctx, ingredients)
	if err != nil {
		return err
	}
	printGenerated(out, generated)

	imageURL := ""
	if opts.withImg {
		image, err := a.Recipes.GenerateImage(ctx, generated)
		if err != nil {
			return err
		}
		imageURL = image.URL
		fmt.Fprintf(out, "\nImage: %s\n", imageURL)
	}

	if !opts.save {
		return nil
	}
	saved, err := a.Recipes.SaveGenerated(ctx, generated, imageURL, opts.favorite)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\nSaved as %s (favorite: %s)\n", saved.ID, yesNo(opts.favorite))
	return nil
}

// ingredientsFromPhoto runs the capture flow against an image file
func ingredientsFromPhoto(ctx context.Context, a *app.App, path string, current []string) ([]string, error) {
	controller := a.NewCaptureController(camera.NewFileDevice(path))
	defer controller.Close()

	if err := controller.Open(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", controller.Message(), err)
	}
	merged, err := controller.Capture(ctx, current)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", usecase.DeviceErrorMessage(err), err)
	}
	return merged, nil
}

func printGenerated(out io.Writer, generated *domain.GeneratedRecipe) {
	fmt.Fprintln(out, generated.Title)
	if generated.Description != "" {
		fmt.Fprintln(out, generated.Description)
	}

	var facts []string
	if generated.Servings != "" {
		facts = append(facts, "Serves "+generated.Servings)
	}
	if generated.PrepTime != "" {
		facts = append(facts, "Prep "+generated.PrepTime)
	}
	if generated.CookTime != "" {
		facts = append(facts, "Cook "+generated.CookTime)
	}
	if len(facts) > 0 {
		fmt.Fprintln(out, strings.Join(facts, " | "))
	}

	fmt.Fprintln(out, "\nIngredients:")
	for _, ing := range generated.Ingredients {
		fmt.Fprintf(out, "  - %s\n", strings.TrimSpace(ing.Quantity+" "+ing.Item))
	}

	fmt.Fprintln(out, "\nSteps:")
	for i, step := range generated.Instructions {
		fmt.Fprintf(out, "  %d. %s\n", i+1, step)
	}
}
