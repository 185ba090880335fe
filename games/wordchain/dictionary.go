/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package wordchain

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Lookup answers dictionary membership for already-normalized words.
type Lookup interface {
	Contains(word string) bool
}

// Dictionary is an immutable set of lowercase words. It is never written
// after construction, so concurrent readers need no locking.
type Dictionary struct {
	words map[string]struct{}
}

func NewDictionary(words []string) *Dictionary {
	d := &Dictionary{
		words: make(map[string]struct{}, len(words)),
	}
	for _, w := range words {
		w = normalizeWord(w)
		if w == "" {
			continue
		}
		d.words[w] = struct{}{}
	}
	return d
}

func (d *Dictionary) Contains(word string) bool {
	_, ok := d.words[word]
	return ok
}

func (d *Dictionary) Len() int {
	return len(d.words)
}

// LoadDictionary reads a word list from disk. JSON files hold an array of
// strings, YAML files a sequence of strings; anything else is read as one
// word per line, skipping blanks and lines starting with '#'.
func LoadDictionary(path string) (*Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dictionary: %w", err)
	}

	var words []string

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &words); err != nil {
			return nil, fmt.Errorf("parse dictionary %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &words); err != nil {
			return nil, fmt.Errorf("parse dictionary %s: %w", path, err)
		}
	default:
		scanner := bufio.NewScanner(bytes.NewReader(data))
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			words = append(words, line)
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("scan dictionary %s: %w", path, err)
		}
	}

	return NewDictionary(words), nil
}

func normalizeWord(w string) string {
	return strings.ToLower(strings.TrimSpace(w))
}
