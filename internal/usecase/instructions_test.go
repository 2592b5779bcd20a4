package usecase

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSegmentInstructions(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "empty",
			input: "",
			want:  []string{},
		},
		{
			name:  "whitespace only",
			input: "   \n\n  ",
			want:  []string{},
		},
		{
			name:  "shorter than minimum",
			input: "Stir well",
			want:  []string{},
		},
		{
			name:  "two sentences",
			input: "Step one. Step two.",
			want:  []string{"Step one.", "Step two."},
		},
		{
			name:  "numbered list",
			input: "1. Preheat the oven to 180C\n2. Mix the flour and sugar\n3) Bake for 20 minutes",
			want:  []string{"Preheat the oven to 180C.", "Mix the flour and sugar.", "Bake for 20 minutes."},
		},
		{
			name:  "step prefixes",
			input: "Step 1: Chop the onions\nStep 2: Fry them until golden",
			want:  []string{"Chop the onions.", "Fry them until golden."},
		},
		{
			name:  "paragraphs",
			input: "Boil the water for pasta\n\nAdd salt and the pasta\n\n\nDrain and serve hot",
			want:  []string{"Boil the water for pasta.", "Add salt and the pasta.", "Drain and serve hot."},
		},
		{
			name:  "stray punctuation dropped",
			input: "Mix well. !. Serve it warm and enjoy.",
			want:  []string{"Mix well.", "Serve it warm and enjoy."},
		},
		{
			name:  "single sentence without terminator",
			input: "Combine everything in a bowl",
			want:  []string{"Combine everything in a bowl."},
		},
		{
			name:  "question and exclamation normalized",
			input: "Is the sauce thick enough? Taste it now!",
			want:  []string{"Is the sauce thick enough.", "Taste it now."},
		},
		{
			name:  "decimals are not boundaries",
			input: "Add 1.5 cups of stock. Simmer for ten minutes.",
			want:  []string{"Add 1.5 cups of stock.", "Simmer for ten minutes."},
		},
		{
			name:  "only punctuation",
			input: "..........!!",
			want:  []string{},
		},
		{
			name:  "numbered list with short steps",
			input: "1. Boil\n2. Stir the pot well\n3. Serve",
			want:  []string{"Stir the pot well."},
		},
		{
			name:  "numbered list markers never leak into steps",
			input: "1. Boil the water\n2. Stir\n3. Serve it hot",
			want:  []string{"Boil the water.", "Serve it hot."},
		},
		{
			name:  "line breaks inside a step collapse",
			input: "Whisk the eggs\nwith the milk. Pour into the pan.",
			want:  []string{"Whisk the eggs with the milk.", "Pour into the pan."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SegmentInstructions(tt.input))
		})
	}
}

func TestSegmentInstructions_StepsEndWithPeriod(t *testing.T) {
	inputs := []string{
		"Chop; fry; serve immediately!",
		"1. Heat the pan\n2. Add oil,\n3. Cook the onions:",
		strings.Repeat("Keep stirring the risotto. ", 5),
	}

	for _, input := range inputs {
		steps := SegmentInstructions(input)
		assert.NotEmpty(t, steps, input)
		for _, step := range steps {
			assert.True(t, strings.HasSuffix(step, "."), "step %q", step)
			assert.False(t, strings.HasSuffix(step, ".."), "step %q", step)
		}
	}
}

func TestSegmentInstructions_NonEmptyForLongInput(t *testing.T) {
	inputs := []string{
		"a. b. c. d. e. f",
		"Supercalifragilistic",
	}

	for _, input := range inputs {
		assert.NotEmpty(t, SegmentInstructions(input), input)
	}
}
