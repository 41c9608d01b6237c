// Package seed reads the initial vocabulary: a JSON object mapping
// source-language words to their translations.
package seed

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"wordquiz/internal/domain"
)

// Load reads seed entries from the JSON file at path
func Load(path string) ([]domain.SeedEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse decodes seed entries sorted by source word. Blank keys or values are rejected.
func Parse(r io.Reader) ([]domain.SeedEntry, error) {
	var data map[string]string
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode seed data: %w", err)
	}

	entries := make([]domain.SeedEntry, 0, len(data))
	for word, translation := range data {
		word, translation = strings.TrimSpace(word), strings.TrimSpace(translation)
		if word == "" || translation == "" {
			return nil, fmt.Errorf("seed entry %q -> %q: %w", word, translation, domain.ErrEmptyText)
		}
		entries = append(entries, domain.SeedEntry{Word: word, Translation: translation})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Word < entries[j].Word
	})

	return entries, nil
}
