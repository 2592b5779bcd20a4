package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

type cliTestEnv struct {
	configPath string
	baseDir    string
	server     *httptest.Server
}

// setupCLITestEnv starts a fake recipe API and writes a config pointing at
// it. extraConfig is appended to the YAML file.
func setupCLITestEnv(t *testing.T, extraConfig ...string) *cliTestEnv {
	t.Helper()

	catalog := []map[string]any{
		{"_id": "r1", "title": "Tomato Soup", "ingredients_cleaned": []string{"4 tomatoes", "2 cups stock"},
			"instructions": "Chop the tomatoes. Simmer in the stock. Blend until smooth."},
		{"_id": "r2", "title": "Green Salad", "ingredients_cleaned": []string{"lettuce"},
			"instructions": "Toss everything together."},
		{"_id": "r3", "title": "Lettuce Wraps", "ingredients_cleaned": []string{"lettuce", "chicken"},
			"instructions": "Fill the leaves and roll them up."},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/recipes/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		id := strings.TrimPrefix(r.URL.Path, "/api/v1/recipes/")
		if id == "" {
			skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
			limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
			if err != nil || limit <= 0 {
				limit = len(catalog)
			}
			start := min(skip, len(catalog))
			_ = json.NewEncoder(w).Encode(catalog[start:min(start+limit, len(catalog))])
			return
		}
		for _, recipe := range catalog {
			if recipe["_id"] == id {
				_ = json.NewEncoder(w).Encode(recipe)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"Recipe not found"}`))
	})
	mux.HandleFunc("/api/v1/generate/generate-recipe/", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Ingredients []string `json:"ingredients"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"title":"%s bake","servings":"2","ingredients":[{"item":"%s","quantity":"1 cup"}],"instructions":["Mix it all","Bake for twenty minutes"]}`,
			strings.Join(req.Ingredients, " and "), req.Ingredients[0])
	})
	mux.HandleFunc("/api/v1/image/extract-ingredients/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ingredients":["cheese","egg"]}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	base := t.TempDir()
	configPath := filepath.Join(base, "config.yaml")
	contents := fmt.Sprintf(`server:
  environment: test
api:
  base_url: %s
  max_retries: 1
storage:
  type: file
  path: %s
search:
  debounce: 1h
`, server.URL, filepath.Join(base, "storage.json")) + strings.Join(extraConfig, "")
	if err := os.WriteFile(configPath, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return &cliTestEnv{configPath: configPath, baseDir: base, server: server}
}

func runCLI(t *testing.T, env *cliTestEnv, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("output missing %q:\n%s", needle, haystack)
	}
}

func TestRecipesList(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := runCLI(t, env, "", "recipes", "list")
	if err != nil {
		t.Fatalf("recipes list: %v", err)
	}
	requireContains(t, out, "Tomato Soup")
	requireContains(t, out, "Green Salad")
	if strings.Contains(out, "More recipes") {
		t.Errorf("unexpected pagination hint:\n%s", out)
	}
}

func TestRecipesSearch(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := runCLI(t, env, "", "recipes", "search", "lettuce")
	if err != nil {
		t.Fatalf("recipes search: %v", err)
	}
	requireContains(t, out, "Green Salad")
	if strings.Contains(out, "Tomato Soup") {
		t.Errorf("search returned a non-matching recipe:\n%s", out)
	}

	out, err = runCLI(t, env, "", "recipes", "search", "pizza")
	if err != nil {
		t.Fatalf("recipes search: %v", err)
	}
	requireContains(t, out, `No recipes match "pizza"`)
}

func TestRecipesListAll(t *testing.T) {
	env := setupCLITestEnv(t, "pagination:\n  page_size: 1\n")

	out, err := runCLI(t, env, "", "recipes", "list")
	if err != nil {
		t.Fatalf("recipes list: %v", err)
	}
	requireContains(t, out, "More recipes: savora recipes list --page 1")
	if strings.Contains(out, "Green Salad") {
		t.Errorf("single page listed more than one recipe:\n%s", out)
	}

	out, err = runCLI(t, env, "", "recipes", "list", "--all")
	if err != nil {
		t.Fatalf("recipes list --all: %v", err)
	}
	requireContains(t, out, "Tomato Soup")
	requireContains(t, out, "Green Salad")
	requireContains(t, out, "Lettuce Wraps")
	if strings.Contains(out, "More recipes") {
		t.Errorf("unexpected pagination hint:\n%s", out)
	}
}

func TestRecipesSearchAll(t *testing.T) {
	env := setupCLITestEnv(t, "pagination:\n  page_size: 1\n")

	out, err := runCLI(t, env, "", "recipes", "search", "lettuce", "--all")
	if err != nil {
		t.Fatalf("recipes search --all: %v", err)
	}
	requireContains(t, out, "Green Salad")
	requireContains(t, out, "Lettuce Wraps")
	if strings.Contains(out, "Tomato Soup") {
		t.Errorf("search returned a non-matching recipe:\n%s", out)
	}
}

func TestRecipesFindSearchesLastQuery(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := runCLI(t, env, "tom\ntomato\nlettuce\n", "recipes", "find")
	if err != nil {
		t.Fatalf("recipes find: %v", err)
	}
	requireContains(t, out, `Results for "lettuce"`)
	requireContains(t, out, "Green Salad")
	requireContains(t, out, "Lettuce Wraps")
	if strings.Contains(out, `Results for "tom"`) {
		t.Errorf("superseded query was searched:\n%s", out)
	}
}

func TestRecipesFindLoadsMore(t *testing.T) {
	env := setupCLITestEnv(t, "pagination:\n  page_size: 1\n")

	out, err := runCLI(t, env, "lettuce\n+\n+\n", "recipes", "find")
	if err != nil {
		t.Fatalf("recipes find: %v", err)
	}
	requireContains(t, out, "Enter + for more")
	requireContains(t, out, "No more results")
	first, second := strings.Index(out, "Green Salad"), strings.Index(out, "Lettuce Wraps")
	if first < 0 || second < first {
		t.Errorf("pages out of order:\n%s", out)
	}
}

func TestRecipesFindCancelAndEmpty(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := runCLI(t, env, "+\ntomato\n\n", "recipes", "find")
	if err != nil {
		t.Fatalf("recipes find: %v", err)
	}
	requireContains(t, out, "Type a query first")
	if strings.Contains(out, "Results for") {
		t.Errorf("cancelled query was searched:\n%s", out)
	}

	out, err = runCLI(t, env, "pizza\n", "recipes", "find")
	if err != nil {
		t.Fatalf("recipes find: %v", err)
	}
	requireContains(t, out, `No recipes match "pizza"`)
}

func TestRecipesShow(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := runCLI(t, env, "", "recipes", "show", "r1", "--servings", "2")
	if err != nil {
		t.Fatalf("recipes show: %v", err)
	}
	requireContains(t, out, "Servings: 2 (original 4)")
	requireContains(t, out, "- 2 tomatoes")
	requireContains(t, out, "- 1 cups stock")
	requireContains(t, out, "2. Simmer in the stock.")

	if _, err := runCLI(t, env, "", "recipes", "show", "missing"); err == nil {
		t.Error("expected an error for a missing recipe")
	}
}

func TestFavoritesRoundTrip(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, err := runCLI(t, env, "", "favorites", "add", "r2"); err != nil {
		t.Fatalf("favorites add: %v", err)
	}

	// A separate run reads the favorites back from storage
	out, err := runCLI(t, env, "", "favorites", "list")
	if err != nil {
		t.Fatalf("favorites list: %v", err)
	}
	requireContains(t, out, "Green Salad")

	if _, err := runCLI(t, env, "", "favorites", "rm", "r2"); err != nil {
		t.Fatalf("favorites remove: %v", err)
	}
	out, err = runCLI(t, env, "", "favorites", "list")
	if err != nil {
		t.Fatalf("favorites list: %v", err)
	}
	requireContains(t, out, "No favorites yet")
}

func TestGenerateSaveFavorite(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := runCLI(t, env, "", "generate", "chicken, rice", "--favorite")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	requireContains(t, out, "chicken and rice bake")
	requireContains(t, out, "- 1 cup chicken")
	requireContains(t, out, "Saved as generated-")

	out, err = runCLI(t, env, "", "favorites", "list")
	if err != nil {
		t.Fatalf("favorites list: %v", err)
	}
	requireContains(t, out, "chicken and rice bake")
	requireContains(t, out, "generated")
}

func TestGenerateRequiresIngredients(t *testing.T) {
	env := setupCLITestEnv(t)

	_, err := runCLI(t, env, "", "generate", " , ")
	if err == nil || !strings.Contains(err.Error(), "at least one ingredient") {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestGenerateFromPhoto(t *testing.T) {
	env := setupCLITestEnv(t)

	photo := filepath.Join(env.baseDir, "fridge.png")
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 200, A: 255})
	f, err := os.Create(photo)
	if err != nil {
		t.Fatalf("create photo: %v", err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode photo: %v", err)
	}
	f.Close()

	out, err := runCLI(t, env, "", "generate", "Egg", "--photo", photo)
	if err != nil {
		t.Fatalf("generate --photo: %v", err)
	}
	requireContains(t, out, "Ingredients: Egg, cheese")
	requireContains(t, out, "Egg and cheese bake")

	_, err = runCLI(t, env, "", "generate", "egg", "--photo", filepath.Join(env.baseDir, "missing.png"))
	if err == nil || !strings.Contains(err.Error(), "No camera was found") {
		t.Fatalf("err = %v, want missing camera message", err)
	}
}

func TestCook(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := runCLI(t, env, "p\n3\n1\nn\nn\nn\n", "cook", "r1")
	if err != nil {
		t.Fatalf("cook: %v", err)
	}
	requireContains(t, out, "Cooking Tomato Soup")
	requireContains(t, out, "Step 1 of 3")
	requireContains(t, out, "Already at the first step")
	requireContains(t, out, "Step 3 of 3\nBlend until smooth.")
	requireContains(t, out, "Done! Total time 00:00")
}

func TestCookQuit(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := runCLI(t, env, "9\nq\n", "cook", "r1")
	if err != nil {
		t.Fatalf("cook: %v", err)
	}
	requireContains(t, out, "There is no step 9")
	if strings.Contains(out, "Done!") {
		t.Errorf("quit should not finish the session:\n%s", out)
	}
}

func TestRenderTable(t *testing.T) {
	out := renderTable([]string{"ID", "Count"}, [][]string{{"a", "1"}, {"b"}}, []columnAlignment{alignLeft, alignRight})

	requireContains(t, out, "ID")
	requireContains(t, out, "Count")
	requireContains(t, out, "a")
	if renderTable(nil, nil, nil) != "" {
		t.Error("empty headers should render nothing")
	}
}
