// Package staging holds the ordered list of files a page visit has selected
// but not yet submitted.
package staging

import (
	"sync"

	"github.com/authentiq/portal/internal/models"
)

// Stager accumulates candidate files in insertion order.
// Re-adding a file with the same name produces a duplicate entry.
type Stager struct {
	mu    sync.RWMutex
	files []models.StagedFile
}

// NewStager creates an empty stager.
func NewStager() *Stager {
	return &Stager{files: make([]models.StagedFile, 0)}
}

// Add appends files to the end of the staged list.
func (s *Stager) Add(files ...models.StagedFile) {
	if len(files) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files = append(s.files, files...)
}

// Remove drops the entry at index. Out-of-range indexes are ignored and
// report false.
func (s *Stager) Remove(index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.files) {
		return false
	}
	s.files = append(s.files[:index], s.files[index+1:]...)
	return true
}

// Clear empties the staged list.
func (s *Stager) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files = make([]models.StagedFile, 0)
}

// Files returns a copy of the staged list.
func (s *Stager) Files() []models.StagedFile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.StagedFile, len(s.files))
	copy(out, s.files)
	return out
}

// Len returns the number of staged files.
func (s *Stager) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.files)
}
