// Package results presents verification results newest first.
package results

import (
	"strings"
	"sync"

	"github.com/authentiq/portal/internal/models"
)

// Board is the displayed result list of one page visit. Results are only
// ever added; there is no removal or pagination.
type Board struct {
	mu      sync.RWMutex
	results []models.VerificationResult
}

// NewBoard creates an empty board.
func NewBoard() *Board {
	return &Board{results: make([]models.VerificationResult, 0)}
}

// Present puts result at the top of the board.
func (b *Board) Present(result models.VerificationResult) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.results = append(b.results, models.VerificationResult{})
	copy(b.results[1:], b.results)
	b.results[0] = result
}

// List returns the board newest first.
func (b *Board) List() []models.VerificationResult {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]models.VerificationResult, len(b.results))
	copy(out, b.results)
	return out
}

// Len returns the number of presented results.
func (b *Board) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.results)
}

// Filter returns the results whose visible fields contain term,
// case-insensitively, keeping board order. An empty term matches everything.
func (b *Board) Filter(term string) []models.VerificationResult {
	all := b.List()
	term = strings.TrimSpace(term)
	if term == "" {
		return all
	}

	out := make([]models.VerificationResult, 0, len(all))
	for _, r := range all {
		if Matches(term, r.FileName, string(r.StatusLabel), r.Institution, r.Note) {
			out = append(out, r)
		}
	}
	return out
}

// Matches reports whether any of fields contains term, ignoring case.
func Matches(term string, fields ...string) bool {
	needle := strings.ToLower(term)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}
