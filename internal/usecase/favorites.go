package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/savora/core/internal/domain"
)

// Storage keys shared with the web client's local storage layout
const (
	FavoritesKey        = "favorites"
	GeneratedRecipesKey = "generatedRecipes"
)

// favoritesCatalogWindow is how much of the catalog List scans for
// server-backed favorites
const favoritesCatalogWindow = 100

// FavoritesGauge receives the favorites count after every change
type FavoritesGauge interface {
	SetFavorites(n int)
}

// FavoritesStoreConfig holds optional collaborators for the favorites store
type FavoritesStoreConfig struct {
	Logger *zap.Logger
	Gauge  FavoritesGauge
}

// FavoritesStore owns the favorited ids and the generated-recipe cache. It
// is constructed once per application instance; state is loaded from the
// key-value store on construction and written back on every mutation.
type FavoritesStore struct {
	store  domain.KeyValueStore
	lister domain.RecipeLister
	logger *zap.Logger
	gauge  FavoritesGauge

	mu        sync.RWMutex
	ids       []string
	members   map[string]struct{}
	generated []domain.Recipe
}

// NewFavoritesStore loads persisted favorites and generated recipes
func NewFavoritesStore(
	ctx context.Context,
	store domain.KeyValueStore,
	lister domain.RecipeLister,
	config FavoritesStoreConfig,
) (*FavoritesStore, error) {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &FavoritesStore{
		store:   store,
		lister:  lister,
		logger:  logger.Named("favorites"),
		gauge:   config.Gauge,
		members: make(map[string]struct{}),
	}

	var ids []string
	if err := s.load(ctx, FavoritesKey, &ids); err != nil {
		return nil, err
	}
	for _, id := range ids {
		if _, dup := s.members[id]; id == "" || dup {
			continue
		}
		s.members[id] = struct{}{}
		s.ids = append(s.ids, id)
	}

	if err := s.load(ctx, GeneratedRecipesKey, &s.generated); err != nil {
		return nil, err
	}

	s.logger.Debug("favorites loaded",
		zap.Int("favorites", len(s.ids)),
		zap.Int("generated", len(s.generated)))
	s.reportCount()
	return s, nil
}

// load decodes key into out. A missing key leaves out untouched; a corrupt
// document is logged and ignored.
func (s *FavoritesStore) load(ctx context.Context, key string, out any) error {
	raw, err := s.store.Get(ctx, key)
	if errors.Is(err, domain.ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		s.logger.Warn("discarding corrupt stored value", zap.String("key", key), zap.Error(err))
	}
	return nil
}

func (s *FavoritesStore) save(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.store.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("persist %s: %w", key, err)
	}
	return nil
}

func (s *FavoritesStore) reportCount() {
	if s.gauge != nil {
		s.gauge.SetFavorites(len(s.ids))
	}
}

// Add favorites id. Adding a member again is a no-op.
func (s *FavoritesStore) Add(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: recipe id is required", domain.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.members[id]; ok {
		return nil
	}

	next := make([]string, len(s.ids), len(s.ids)+1)
	copy(next, s.ids)
	next = append(next, id)
	if err := s.save(ctx, FavoritesKey, next); err != nil {
		return err
	}

	s.ids = next
	s.members[id] = struct{}{}
	s.reportCount()
	return nil
}

// Remove unfavorites id. Removing a non-member is a no-op.
func (s *FavoritesStore) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.members[id]; !ok {
		return nil
	}

	next := make([]string, 0, len(s.ids))
	for _, existing := range s.ids {
		if existing != id {
			next = append(next, existing)
		}
	}
	if err := s.save(ctx, FavoritesKey, next); err != nil {
		return err
	}

	s.ids = next
	delete(s.members, id)
	s.reportCount()
	return nil
}

// Toggle flips membership of id and reports the new state
func (s *FavoritesStore) Toggle(ctx context.Context, id string) (bool, error) {
	if s.IsFavorite(id) {
		return false, s.Remove(ctx, id)
	}
	return true, s.Add(ctx, id)
}

// IsFavorite reports whether id is favorited
func (s *FavoritesStore) IsFavorite(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.members[id]
	return ok
}

// IDs returns the favorited ids in the order they were added
func (s *FavoritesStore) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

// Count returns the number of favorites
func (s *FavoritesStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}

// List returns favorited server recipes followed by favorited generated
// recipes. When the catalog cannot be fetched only the generated favorites
// are returned, without an error.
func (s *FavoritesStore) List(ctx context.Context) ([]domain.Recipe, error) {
	s.mu.RLock()
	members := make(map[string]struct{}, len(s.members))
	needServer := false
	for id := range s.members {
		members[id] = struct{}{}
		if !domain.IsGeneratedID(id) {
			needServer = true
		}
	}
	generated := make([]domain.Recipe, 0)
	for _, recipe := range s.generated {
		if _, ok := members[recipe.ID]; ok {
			generated = append(generated, recipe)
		}
	}
	s.mu.RUnlock()

	result := make([]domain.Recipe, 0, len(members))
	if needServer {
		recipes, err := s.lister.ListRecipes(ctx, 0, favoritesCatalogWindow)
		if err != nil {
			s.logger.Warn("catalog unavailable, listing generated favorites only", zap.Error(err))
			return generated, nil
		}
		for _, recipe := range recipes {
			if _, ok := members[recipe.ID]; ok {
				result = append(result, recipe)
			}
		}
	}

	return append(result, generated...), nil
}

// SaveGenerated upserts recipe into the generated-recipe cache: an entry
// with the same id is replaced in place, otherwise it is appended.
func (s *FavoritesStore) SaveGenerated(ctx context.Context, recipe domain.Recipe) error {
	if recipe.ID == "" {
		return fmt.Errorf("%w: recipe id is required", domain.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]domain.Recipe, len(s.generated), len(s.generated)+1)
	copy(next, s.generated)

	replaced := false
	for i := range next {
		if next[i].ID == recipe.ID {
			next[i] = recipe
			replaced = true
			break
		}
	}
	if !replaced {
		next = append(next, recipe)
	}

	if err := s.save(ctx, GeneratedRecipesKey, next); err != nil {
		return err
	}
	s.generated = next
	return nil
}

// DeleteGenerated drops id from the generated-recipe cache and from the
// favorites. It reports whether the recipe was cached.
func (s *FavoritesStore) DeleteGenerated(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	next := make([]domain.Recipe, 0, len(s.generated))
	for _, recipe := range s.generated {
		if recipe.ID != id {
			next = append(next, recipe)
		}
	}
	found := len(next) != len(s.generated)
	if found {
		if err := s.save(ctx, GeneratedRecipesKey, next); err != nil {
			s.mu.Unlock()
			return false, err
		}
		s.generated = next
	}
	s.mu.Unlock()

	if !found {
		return false, nil
	}
	return true, s.Remove(ctx, id)
}

// GetGenerated looks up a cached generated recipe by id
func (s *FavoritesStore) GetGenerated(id string) (domain.Recipe, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, recipe := range s.generated {
		if recipe.ID == id {
			return recipe, true
		}
	}
	return domain.Recipe{}, false
}

// Generated returns every cached generated recipe
func (s *FavoritesStore) Generated() []domain.Recipe {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Recipe, len(s.generated))
	copy(out, s.generated)
	return out
}
