package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Unobtainiumrock/toy-problem-performance-analysis/domain/problem"
)

// LayoutFile is the YAML representation of the watched sheet's columns.
//
//	columns: [problem_name, problem_type, difficulty_level]
//	defaults:
//	  difficulty_level: easy
type LayoutFile struct {
	Columns  []string          `yaml:"columns"`
	Defaults map[string]string `yaml:"defaults"`
}

// ToLayout converts the file representation to a problem.Layout.
func (f LayoutFile) ToLayout() (problem.Layout, error) {
	columns := make([]problem.Field, 0, len(f.Columns))
	for _, c := range f.Columns {
		columns = append(columns, problem.Field(c))
	}
	defaults := make(map[problem.Field]string, len(f.Defaults))
	for k, v := range f.Defaults {
		defaults[problem.Field(k)] = v
	}
	return problem.NewLayout(columns, defaults)
}

// ParseLayout parses YAML layout content.
func ParseLayout(data []byte) (problem.Layout, error) {
	var f LayoutFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return problem.Layout{}, fmt.Errorf("parse layout: %w", err)
	}
	layout, err := f.ToLayout()
	if err != nil {
		return problem.Layout{}, fmt.Errorf("parse layout: %w", err)
	}
	return layout, nil
}

// LoadLayout reads a layout file. An empty path returns the built-in layout.
func LoadLayout(path string) (problem.Layout, error) {
	if path == "" {
		return problem.DefaultLayout(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return problem.Layout{}, fmt.Errorf("read layout %s: %w", path, err)
	}
	return ParseLayout(data)
}
