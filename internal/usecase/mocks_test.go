package usecase

import (
	"context"
	"image"
	"image/color"
	"io"
	"sync"

	"github.com/savora/core/internal/domain"
)

// MockRecipeAPI is a mock implementation of domain.RecipeAPIClient
type MockRecipeAPI struct {
	mu sync.Mutex

	recipes   []domain.Recipe
	listError error
	listCalls []int // skip of each call

	getError error
	getCalls int

	created     *domain.CreateRecipeRequest
	deleted     []string
	deleteError error

	generated     *domain.GeneratedRecipe
	generateError error
	generateCalls [][]string

	extracted    *domain.ExtractedIngredients
	extractError error
	extractBytes []byte

	image       *domain.GeneratedImage
	imagePrompt string
}

func NewMockRecipeAPI(recipes ...domain.Recipe) *MockRecipeAPI {
	return &MockRecipeAPI{recipes: recipes}
}

func (m *MockRecipeAPI) ListRecipes(ctx context.Context, skip, limit int) ([]domain.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.listCalls = append(m.listCalls, skip)
	if m.listError != nil {
		return nil, m.listError
	}
	return paginate(m.recipes, skip, limit), nil
}

func (m *MockRecipeAPI) ListCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.listCalls)
}

func (m *MockRecipeAPI) GetRecipe(ctx context.Context, id string) (*domain.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.getCalls++
	if m.getError != nil {
		return nil, m.getError
	}
	for _, r := range m.recipes {
		if r.ID == id {
			recipe := r
			return &recipe, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockRecipeAPI) CreateRecipe(ctx context.Context, req *domain.CreateRecipeRequest) (*domain.Recipe, error) {
	m.created = req
	return &domain.Recipe{ID: "created-1", Title: req.Title, Ingredients: req.Ingredients}, nil
}

func (m *MockRecipeAPI) DeleteRecipe(ctx context.Context, id string) (*domain.DeleteAck, error) {
	if m.deleteError != nil {
		return nil, m.deleteError
	}
	m.deleted = append(m.deleted, id)
	return &domain.DeleteAck{Message: "Recipe deleted"}, nil
}

func (m *MockRecipeAPI) GenerateRecipe(ctx context.Context, ingredients []string) (*domain.GeneratedRecipe, error) {
	m.generateCalls = append(m.generateCalls, ingredients)
	if m.generateError != nil {
		return nil, m.generateError
	}
	return m.generated, nil
}

func (m *MockRecipeAPI) ExtractIngredients(ctx context.Context, filename string, photo io.Reader) (*domain.ExtractedIngredients, error) {
	data, _ := io.ReadAll(photo)
	m.mu.Lock()
	m.extractBytes = data
	m.mu.Unlock()

	if m.extractError != nil {
		return nil, m.extractError
	}
	return m.extracted, nil
}

func (m *MockRecipeAPI) GenerateImage(ctx context.Context, prompt string) (*domain.GeneratedImage, error) {
	m.imagePrompt = prompt
	return m.image, nil
}

// MockKeyValueStore is a mock implementation of domain.KeyValueStore
type MockKeyValueStore struct {
	mu       sync.Mutex
	data     map[string][]byte
	getError error
	setError error
	sets     int
}

func NewMockKeyValueStore() *MockKeyValueStore {
	return &MockKeyValueStore{data: make(map[string][]byte)}
}

func (m *MockKeyValueStore) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.getError != nil {
		return nil, m.getError
	}
	value, ok := m.data[key]
	if !ok {
		return nil, domain.ErrKeyNotFound
	}
	return value, nil
}

func (m *MockKeyValueStore) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.setError != nil {
		return m.setError
	}
	m.sets++
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *MockKeyValueStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *MockKeyValueStore) Close() error {
	return nil
}

// MockCaptureDevice is a mock implementation of domain.CaptureDevice
type MockCaptureDevice struct {
	mu         sync.Mutex
	startError error
	frameError error
	frame      image.Image
	started    bool
	starts     int
	stops      int
	block      chan struct{} // when set, Start waits on it or ctx
	frameBlock chan struct{} // when set, Frame waits on it or ctx
	frameCalls int
}

// BlockFrames makes later Frame calls wait until release is closed or
// their context ends
func (m *MockCaptureDevice) BlockFrames(release chan struct{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frameBlock = release
}

func (m *MockCaptureDevice) FrameCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.frameCalls
}

func NewMockCaptureDevice() *MockCaptureDevice {
	// Left half red, right half blue
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	img.Set(1, 0, color.RGBA{B: 255, A: 255})
	return &MockCaptureDevice{frame: img}
}

func (m *MockCaptureDevice) Start(ctx context.Context) error {
	m.mu.Lock()
	m.starts++
	block := m.block
	m.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.startError != nil {
		return m.startError
	}
	m.started = true
	return nil
}

func (m *MockCaptureDevice) Frame(ctx context.Context) (image.Image, error) {
	m.mu.Lock()
	m.frameCalls++
	block := m.frameBlock
	m.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.frameError != nil {
		return nil, m.frameError
	}
	return m.frame, nil
}

func (m *MockCaptureDevice) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started = false
	m.stops++
	return nil
}

func (m *MockCaptureDevice) Started() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.started
}
