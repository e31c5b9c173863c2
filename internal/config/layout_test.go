package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Unobtainiumrock/toy-problem-performance-analysis/domain/problem"
)

func TestLoadLayout_EmptyPathIsDefault(t *testing.T) {
	layout, err := LoadLayout("")
	require.NoError(t, err)
	assert.Equal(t, problem.DefaultColumns(), layout.Columns())
	assert.Equal(t, "K", layout.LastColumn())
}

func TestLoadLayout_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.yaml")
	content := `
columns: [problem_name, difficulty_level, completion_time_minutes]
defaults:
  difficulty_level: easy
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	layout, err := LoadLayout(path)
	require.NoError(t, err)

	assert.Equal(t, 3, layout.Width())
	assert.Equal(t, "C", layout.LastColumn())
	assert.Equal(t, "easy", layout.Default(problem.FieldDifficultyLevel))
	assert.Equal(t, "General", layout.Default(problem.FieldType))
}

func TestParseLayout_UnknownColumn(t *testing.T) {
	_, err := ParseLayout([]byte("columns: [nope]"))
	assert.Error(t, err)
}

func TestLoadLayout_MissingFile(t *testing.T) {
	_, err := LoadLayout(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
