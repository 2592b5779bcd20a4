package usecase

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/savora/core/internal/domain"
)

// CookingProgress is a snapshot of a cooking session
type CookingProgress struct {
	SessionID string        `json:"session_id"`
	RecipeID  string        `json:"recipe_id"`
	Step      int           `json:"step"` // 1-based
	Total     int           `json:"total"`
	Current   string        `json:"current"`
	Done      bool          `json:"done"`
	Running   bool          `json:"running"`
	Elapsed   time.Duration `json:"elapsed"`
}

// CookingSession walks a recipe one step at a time and keeps a manual
// stopwatch. The clock is injectable for tests.
type CookingSession struct {
	id       string
	recipeID string
	steps    []string
	now      func() time.Time

	mu        sync.Mutex
	index     int
	done      bool
	running   bool
	startedAt time.Time
	elapsed   time.Duration
}

// NewCookingSession segments the recipe instructions into steps. A recipe
// without usable instructions is rejected.
func NewCookingSession(recipe *domain.Recipe, now func() time.Time) (*CookingSession, error) {
	steps := SegmentInstructions(recipe.Instructions)
	if len(steps) == 0 {
		return nil, fmt.Errorf("%w: recipe %q has no instructions", domain.ErrValidation, recipe.ID)
	}
	if now == nil {
		now = time.Now
	}
	return &CookingSession{
		id:       uuid.NewString(),
		recipeID: recipe.ID,
		steps:    steps,
		now:      now,
	}, nil
}

// ID returns the session id
func (s *CookingSession) ID() string {
	return s.id
}

// Steps returns all steps
func (s *CookingSession) Steps() []string {
	out := make([]string, len(s.steps))
	copy(out, s.steps)
	return out
}

// Current returns the step being cooked
func (s *CookingSession) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.steps[s.index]
}

// Next advances one step. On the last step it marks the session done and
// reports false.
func (s *CookingSession) Next() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index == len(s.steps)-1 {
		s.done = true
		return false
	}
	s.index++
	return true
}

// Previous goes back one step. It reports false on the first step.
func (s *CookingSession) Previous() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.done = false
	if s.index == 0 {
		return false
	}
	s.index--
	return true
}

// GoTo jumps to a 0-based step index
func (s *CookingSession) GoTo(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.steps) {
		return fmt.Errorf("%w: step %d out of range", domain.ErrValidation, index+1)
	}
	s.index = index
	s.done = false
	return nil
}

// StartTimer starts or resumes the stopwatch
func (s *CookingSession) StartTimer() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		s.running = true
		s.startedAt = s.now()
	}
}

// PauseTimer stops the stopwatch, keeping the elapsed time
func (s *CookingSession) PauseTimer() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		s.elapsed += s.now().Sub(s.startedAt)
		s.running = false
	}
}

// ResetTimer stops the stopwatch and zeroes it
func (s *CookingSession) ResetTimer() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.running = false
	s.elapsed = 0
}

// Elapsed returns the stopwatch reading
func (s *CookingSession) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elapsedLocked()
}

func (s *CookingSession) elapsedLocked() time.Duration {
	if s.running {
		return s.elapsed + s.now().Sub(s.startedAt)
	}
	return s.elapsed
}

// Progress returns a snapshot of the session
func (s *CookingSession) Progress() CookingProgress {
	s.mu.Lock()
	defer s.mu.Unlock()

	return CookingProgress{
		SessionID: s.id,
		RecipeID:  s.recipeID,
		Step:      s.index + 1,
		Total:     len(s.steps),
		Current:   s.steps[s.index],
		Done:      s.done,
		Running:   s.running,
		Elapsed:   s.elapsedLocked(),
	}
}

// FormatStopwatch renders d as MM:SS, or H:MM:SS past an hour
func FormatStopwatch(d time.Duration) string {
	total := int(d / time.Second)
	h, m, sec := total/3600, (total/60)%60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, sec)
	}
	return fmt.Sprintf("%02d:%02d", m, sec)
}
