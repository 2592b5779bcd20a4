package usecase

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/savora/core/internal/domain"
)

// DefaultOriginalServings is the serving count assumed for catalog recipes,
// which carry no servings field of their own.
const DefaultOriginalServings = 4

// Fractions are tried before decimals, decimals before integers, so "1/2"
// and "1.5" are each taken as a single token.
var quantityPattern = regexp.MustCompile(`\d+/\d+|\d+\.\d+|\d+`)

// snapTolerance is how close a scaled fraction must be to a common one
const snapTolerance = 0.05

// commonFractions are the culinary fractions small quantities snap to
var commonFractions = []struct {
	value float64
	text  string
}{
	{1.0 / 4, "1/4"},
	{1.0 / 3, "1/3"},
	{1.0 / 2, "1/2"},
	{2.0 / 3, "2/3"},
	{3.0 / 4, "3/4"},
}

// ScaleIngredient multiplies every quantity in an ingredient phrase by
// currentServings/originalServings. Non-numeric text is left untouched.
func ScaleIngredient(text string, currentServings, originalServings int) (string, error) {
	multiplier, err := servingsMultiplier(currentServings, originalServings)
	if err != nil {
		return "", err
	}
	if multiplier == 1 {
		return text, nil
	}

	return quantityPattern.ReplaceAllStringFunc(text, func(token string) string {
		if num, den, ok := strings.Cut(token, "/"); ok {
			return scaleFraction(token, num, den, multiplier)
		}
		value, err := strconv.ParseFloat(token, 64)
		if err != nil {
			return token
		}
		return formatQuantity(value * multiplier)
	}), nil
}

// ScaleIngredients scales each ingredient of a list
func ScaleIngredients(ingredients []string, currentServings, originalServings int) ([]string, error) {
	if _, err := servingsMultiplier(currentServings, originalServings); err != nil {
		return nil, err
	}

	scaled := make([]string, len(ingredients))
	for i, ingredient := range ingredients {
		// The multiplier was validated above
		scaled[i], _ = ScaleIngredient(ingredient, currentServings, originalServings)
	}
	return scaled, nil
}

func servingsMultiplier(currentServings, originalServings int) (float64, error) {
	if originalServings == 0 {
		return 0, fmt.Errorf("%w: original servings is zero", domain.ErrInvalidServings)
	}
	if currentServings < 0 || originalServings < 0 {
		return 0, fmt.Errorf("%w: %d/%d", domain.ErrInvalidServings, currentServings, originalServings)
	}

	m := float64(currentServings) / float64(originalServings)
	if math.IsNaN(m) || math.IsInf(m, 0) {
		return 0, fmt.Errorf("%w: %d/%d", domain.ErrInvalidServings, currentServings, originalServings)
	}
	return m, nil
}

func scaleFraction(token, num, den string, multiplier float64) string {
	n, errN := strconv.ParseFloat(num, 64)
	d, errD := strconv.ParseFloat(den, 64)
	if errN != nil || errD != nil || d == 0 {
		return token
	}

	value := n / d * multiplier
	if value < 1 {
		if snapped, ok := snapFraction(value); ok {
			return snapped
		}
	}
	return formatQuantity(value)
}

// snapFraction returns the nearest common fraction within tolerance
func snapFraction(value float64) (string, bool) {
	best := ""
	bestDiff := math.Inf(1)
	for _, f := range commonFractions {
		if diff := math.Abs(value - f.value); diff < bestDiff {
			best, bestDiff = f.text, diff
		}
	}
	if bestDiff <= snapTolerance {
		return best, true
	}
	return "", false
}

// formatQuantity renders an integer when exact, otherwise one decimal place
func formatQuantity(value float64) string {
	rounded := math.Round(value*10) / 10
	if rounded == math.Trunc(rounded) {
		return strconv.FormatFloat(rounded, 'f', 0, 64)
	}
	return strconv.FormatFloat(rounded, 'f', 1, 64)
}
