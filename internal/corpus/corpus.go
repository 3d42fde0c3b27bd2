// Package corpus loads the polyglot fixture files: YAML documents pairing
// a generic source snippet with the expected rendering per target driver.
package corpus

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// File is one fixture document.
type File struct {
	Desc         string `yaml:"desc"`
	TableVarName string `yaml:"table_variable_name"`
	Tests        []Test `yaml:"tests"`
}

// Test is a single fixture. Each field holds the snippet for one dialect;
// cd is the generic form the transpiler consumes, the rest are expected
// target renderings (absent fields mean no expectation for that target).
type Test struct {
	Generic  Snippet `yaml:"cd"`
	Python   Snippet `yaml:"py"`
	Ruby     Snippet `yaml:"rb"`
	JS       Snippet `yaml:"js"`
	Java     Snippet `yaml:"java"`
	Expected Snippet `yaml:"ot"`
	Define   Snippet `yaml:"def"`
}

// ForDialect returns the expected snippet for a dialect key (rb, js, java
// or py). Unknown keys return an empty snippet.
func (t Test) ForDialect(name string) Snippet {
	switch name {
	case "py":
		return t.Python
	case "rb":
		return t.Ruby
	case "js":
		return t.JS
	case "java":
		return t.Java
	}
	return Snippet{}
}

// RootNames lists the query-root variable names in scope for this file:
// the driver handle plus any table variables the fixture declares.
func (f *File) RootNames(driver string) []string {
	names := []string{driver}
	for _, v := range strings.FieldsFunc(f.TableVarName, func(r rune) bool {
		return r == ',' || r == ' '
	}) {
		if v != "" {
			names = append(names, v)
		}
	}
	return names
}

// Snippet is a fixture value that may be written as a single scalar, a
// list of acceptable alternatives, or a mapping of dialect-version
// variants.
type Snippet struct {
	Alternatives []string
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *Snippet) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var text string
		if err := value.Decode(&text); err != nil {
			return err
		}
		s.Alternatives = []string{text}
		return nil
	case yaml.SequenceNode:
		return value.Decode(&s.Alternatives)
	case yaml.MappingNode:
		// Version-keyed variants; every variant is acceptable.
		for i := 1; i < len(value.Content); i += 2 {
			var text string
			if err := value.Content[i].Decode(&text); err != nil {
				return err
			}
			s.Alternatives = append(s.Alternatives, text)
		}
		return nil
	}
	return fmt.Errorf("line %d: unsupported snippet node", value.Line)
}

// Empty reports whether the fixture has no value for this dialect.
func (s Snippet) Empty() bool { return len(s.Alternatives) == 0 }

// First returns the primary form of the snippet.
func (s Snippet) First() string {
	if len(s.Alternatives) == 0 {
		return ""
	}
	return s.Alternatives[0]
}

// Matches reports whether out equals the expected snippet or is contained
// in its list of acceptable alternatives.
func (s Snippet) Matches(out string) bool {
	for _, alt := range s.Alternatives {
		if alt == out {
			return true
		}
	}
	return false
}

// Entry is one fixture file found in a corpus directory.
type Entry struct {
	Path string
	File *File
}

// Load parses a single fixture file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load fixture file: %w", err)
	}
	return Parse(data)
}

// Parse parses fixture file contents.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture file: %w", err)
	}
	return &f, nil
}

// Walk loads every .yaml fixture file under dir, in lexical path order so
// batch runs are deterministic.
func Walk(dir string) ([]Entry, error) {
	var entries []Entry
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".yaml") {
			return nil
		}
		f, err := Load(path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		entries = append(entries, Entry{Path: path, File: f})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}
