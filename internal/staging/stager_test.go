package staging

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authentiq/portal/internal/models"
)

func file(name string) models.StagedFile {
	return models.StagedFile{Name: name, SizeBytes: 1024, MimeHint: "application/pdf"}
}

func TestStager_AddPreservesOrderAndDuplicates(t *testing.T) {
	s := NewStager()
	s.Add(file("a.pdf"), file("b.pdf"))
	s.Add(file("a.pdf"))

	files := s.Files()
	require.Len(t, files, 3)
	assert.Equal(t, "a.pdf", files[0].Name)
	assert.Equal(t, "b.pdf", files[1].Name)
	assert.Equal(t, "a.pdf", files[2].Name)
}

func TestStager_AddNothing(t *testing.T) {
	s := NewStager()
	s.Add()
	assert.Equal(t, 0, s.Len())
}

func TestStager_Remove(t *testing.T) {
	tests := []struct {
		name      string
		index     int
		wantOK    bool
		wantNames []string
	}{
		{name: "first", index: 0, wantOK: true, wantNames: []string{"b.pdf", "c.pdf"}},
		{name: "middle", index: 1, wantOK: true, wantNames: []string{"a.pdf", "c.pdf"}},
		{name: "last", index: 2, wantOK: true, wantNames: []string{"a.pdf", "b.pdf"}},
		{name: "past end", index: 3, wantOK: false, wantNames: []string{"a.pdf", "b.pdf", "c.pdf"}},
		{name: "negative", index: -1, wantOK: false, wantNames: []string{"a.pdf", "b.pdf", "c.pdf"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStager()
			s.Add(file("a.pdf"), file("b.pdf"), file("c.pdf"))

			assert.NotPanics(t, func() {
				assert.Equal(t, tt.wantOK, s.Remove(tt.index))
			})

			var names []string
			for _, f := range s.Files() {
				names = append(names, f.Name)
			}
			assert.Equal(t, tt.wantNames, names)
		})
	}
}

func TestStager_RemoveOnEmpty(t *testing.T) {
	s := NewStager()
	assert.False(t, s.Remove(0))
	assert.Equal(t, 0, s.Len())
}

// Length always equals adds minus successful removes, whatever the sequence.
func TestStager_LengthInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for run := 0; run < 50; run++ {
		s := NewStager()
		adds, removes := 0, 0

		for op := 0; op < 200; op++ {
			if rng.Intn(2) == 0 {
				n := rng.Intn(3)
				batch := make([]models.StagedFile, n)
				for i := range batch {
					batch[i] = file(fmt.Sprintf("f%d.pdf", op))
				}
				s.Add(batch...)
				adds += n
			} else {
				idx := rng.Intn(s.Len()+4) - 2
				if s.Remove(idx) {
					removes++
				}
			}
			require.Equal(t, adds-removes, s.Len(), "run %d op %d", run, op)
		}
	}
}

func TestStager_FilesIsCopy(t *testing.T) {
	s := NewStager()
	s.Add(file("a.pdf"))

	files := s.Files()
	files[0].Name = "changed.pdf"

	assert.Equal(t, "a.pdf", s.Files()[0].Name)
}

func TestStager_Clear(t *testing.T) {
	s := NewStager()
	s.Add(file("a.pdf"))
	s.Clear()
	assert.Equal(t, 0, s.Len())
}
