package lexicon

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_ContainsPrototypeLists(t *testing.T) {
	lex := Default()

	assert.Contains(t, lex.Positive(), "happy")
	assert.Contains(t, lex.Negative(), "hopeless")
	assert.Contains(t, lex.Crisis(), "want to die")
	assert.Contains(t, lex.Crisis(), "die")
	assert.Len(t, lex.Crisis(), 13)
}

func TestNew_NormalizesEntries(t *testing.T) {
	lex := New(
		[]string{"  Happy ", "happy", "", "GOOD"},
		[]string{"Sad"},
		[]string{"Kill Myself", "  "},
	)

	assert.Equal(t, []string{"happy", "good"}, lex.Positive())
	assert.Equal(t, []string{"sad"}, lex.Negative())
	assert.Equal(t, []string{"kill myself"}, lex.Crisis())
}

func TestNew_EmptyCrisisFallsBack(t *testing.T) {
	tests := []struct {
		name   string
		crisis []string
	}{
		{"nil", nil},
		{"empty", []string{}},
		{"blank entries only", []string{"", "   "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lex := New([]string{"calm"}, []string{"worried"}, tt.crisis)
			assert.Equal(t, Default().Crisis(), lex.Crisis())
			assert.Equal(t, []string{"calm"}, lex.Positive())
		})
	}
}

func TestAccessors_ReturnCopies(t *testing.T) {
	lex := Default()

	words := lex.Crisis()
	words[0] = "tampered"

	assert.NotEqual(t, "tampered", lex.Crisis()[0])
}

func TestParse_OverridesAndFallsBack(t *testing.T) {
	doc := []byte(`
positive: [calm, Hopeful]
negative: []
crisis:
  - "  "
`)
	lex, err := Parse(doc)
	require.NoError(t, err)

	assert.Equal(t, []string{"calm", "hopeful"}, lex.Positive())
	assert.Equal(t, Default().Negative(), lex.Negative(), "empty list uses built-in words")
	assert.Equal(t, Default().Crisis(), lex.Crisis(), "crisis phrases cannot be emptied")
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("positive: [unterminated"))
	assert.Error(t, err)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexicon.yaml")
	require.NoError(t, os.WriteFile(path, []byte("crisis: [no way out]\n"), 0o644))

	lex, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"no way out"}, lex.Crisis())
	assert.Equal(t, Default().Positive(), lex.Positive())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
