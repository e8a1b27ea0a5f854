package contractfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/getmockd/pactkit/pkg/interaction"
)

// Contract is a decoded contract file.
type Contract struct {
	// Path is the file the contract was read from, empty for Parse.
	Path         string
	Consumer     string
	Provider     string
	Interactions interaction.List
}

// Parse decodes a YAML or JSON contract document.
func Parse(data []byte) (*Contract, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing contract: %w", err)
	}

	// Round-trip through JSON so the schema validator and the decoder see
	// the same types regardless of the source format.
	doc, err := normalize(raw)
	if err != nil {
		return nil, err
	}
	if err := Validate(doc); err != nil {
		return nil, err
	}

	obj := doc.(map[string]any)
	c := &Contract{}
	c.Consumer, _ = obj["consumer"].(string)
	c.Provider, _ = obj["provider"].(string)

	items, _ := obj["interactions"].([]any)
	for i, item := range items {
		m, _ := item.(map[string]any)
		in, err := decodeInteraction(m, fmt.Sprintf("interactions[%d]", i))
		if err != nil {
			return nil, err
		}
		c.Interactions = append(c.Interactions, in)
	}
	return c, nil
}

func normalize(raw any) (any, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("converting contract to JSON: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("converting contract to JSON: %w", err)
	}
	return doc, nil
}

// LoadFile reads and decodes a single contract file.
func LoadFile(path string) (*Contract, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	c.Path = path
	return c, nil
}

// Load reads every contract matching pattern, in lexical path order.
// Patterns may use ** to match any number of directories. A pattern that
// matches nothing returns no contracts and no error.
func Load(pattern string) ([]*Contract, error) {
	matches, err := expandGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("expanding glob pattern: %w", err)
	}
	sort.Strings(matches)

	var out []*Contract
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			continue
		}
		c, err := LoadFile(match)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// Interactions loads every contract matching the patterns and returns their
// interactions in order.
func Interactions(patterns ...string) (interaction.List, error) {
	var out interaction.List
	for _, p := range patterns {
		contracts, err := Load(p)
		if err != nil {
			return nil, err
		}
		for _, c := range contracts {
			out = append(out, c.Interactions...)
		}
	}
	return out, nil
}

// expandGlob uses doublestar for ** patterns and filepath.Glob otherwise.
func expandGlob(pattern string) ([]string, error) {
	if strings.Contains(pattern, "**") {
		return doublestar.FilepathGlob(pattern)
	}
	return filepath.Glob(pattern)
}
