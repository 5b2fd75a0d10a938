package wordnet

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/heartmarshall/lexigraph/internal/domain"
	"github.com/heartmarshall/lexigraph/internal/lexicon"
	"github.com/heartmarshall/lexigraph/internal/source/sourcefile"
)

// OEWN JSON deserialization types.

// oewnEntryFile represents an entries-*.json file: {"word": {"pos": {...}}}.
type oewnEntryFile map[string]map[string]json.RawMessage

type oewnPOSEntry struct {
	Sense []oewnSense `json:"sense"`
}

type oewnSense struct {
	ID      string            `json:"id"`
	Synset  string            `json:"synset"`
	Example []json.RawMessage `json:"example"`
}

type oewnSynset struct {
	Definition []string          `json:"definition"`
	Example    []json.RawMessage `json:"example"`
	Hypernym   []string          `json:"hypernym"`
}

// ParseOEWN reads an OEWN JSON release directory. Entry words and synset ids
// are visited in sorted order so the result does not depend on map iteration.
func ParseOEWN(dirPath string) (ParseResult, error) {
	entryFiles, err := filepath.Glob(filepath.Join(dirPath, "entries-*.json"))
	if err != nil {
		return ParseResult{}, fmt.Errorf("glob entry files: %w", err)
	}
	if len(entryFiles) == 0 {
		return ParseResult{}, fmt.Errorf("%w: %s: no entries-*.json files", domain.ErrSourceFormat, dirPath)
	}
	sort.Strings(entryFiles)

	var result ParseResult

	for _, path := range entryFiles {
		var entries oewnEntryFile
		if err := readJSON(path, &entries); err != nil {
			return ParseResult{}, err
		}
		for _, word := range sortedKeys(entries) {
			for _, pos := range sortedKeys(entries[word]) {
				var posEntry oewnPOSEntry
				if err := json.Unmarshal(entries[word][pos], &posEntry); err != nil {
					return ParseResult{}, &domain.SourceError{Path: path, Msg: fmt.Sprintf("entry %q/%s: %v", word, pos, err)}
				}
				result.addOEWNEntry(word, pos, posEntry)
			}
		}
	}

	synsetFiles, err := globSynsetFiles(dirPath)
	if err != nil {
		return ParseResult{}, fmt.Errorf("glob synset files: %w", err)
	}

	for _, path := range synsetFiles {
		var synsets map[string]oewnSynset
		if err := readJSON(path, &synsets); err != nil {
			return ParseResult{}, err
		}
		for _, id := range sortedKeys(synsets) {
			s := synsets[id]
			raw := lexicon.RawSynset{
				ID:        id,
				Examples:  exampleTexts(s.Example),
				Hypernyms: s.Hypernym,
			}
			for _, d := range s.Definition {
				if d = strings.TrimSpace(d); d != "" {
					raw.Definition = d
					break
				}
			}
			result.Stats.TotalSynsets++
			result.Stats.HypernymEdges += len(raw.Hypernyms)
			result.Resource.Synsets = append(result.Resource.Synsets, raw)
		}
	}

	return result, nil
}

func (r *ParseResult) addOEWNEntry(word, pos string, e oewnPOSEntry) {
	r.Stats.TotalEntries++
	word = strings.TrimSpace(word)
	if word == "" {
		r.Stats.SkippedEntries++
		return
	}

	raw := lexicon.RawEntry{
		WrittenForm: word,
		POS:         domain.PartOfSpeech(pos),
		Senses:      make([]lexicon.RawSense, 0, len(e.Sense)),
	}
	for _, s := range e.Sense {
		raw.Senses = append(raw.Senses, lexicon.RawSense{
			ID:       s.ID,
			Synset:   s.Synset,
			Examples: exampleTexts(s.Example),
		})
	}
	r.Stats.TotalSenses += len(raw.Senses)
	r.Resource.Entries = append(r.Resource.Entries, raw)
}

// exampleTexts accepts both example shapes found in OEWN releases:
// a bare string or an object with a "text" field.
func exampleTexts(raw []json.RawMessage) []string {
	var out []string
	for _, msg := range raw {
		var s string
		if err := json.Unmarshal(msg, &s); err == nil {
			out = append(out, s)
			continue
		}
		var obj struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(msg, &obj); err == nil && obj.Text != "" {
			out = append(out, obj.Text)
		}
	}
	return out
}

func readJSON(path string, v any) error {
	rc, err := sourcefile.Open(path)
	if err != nil {
		return err
	}
	defer rc.Close()

	if err := json.NewDecoder(rc).Decode(v); err != nil {
		return &domain.SourceError{Path: path, Msg: fmt.Sprintf("decode JSON: %v", err)}
	}
	return nil
}

// globSynsetFiles finds all synset files in the directory.
// Synset files follow the pattern {pos}.{category}.json where pos is noun/verb/adj/adv.
func globSynsetFiles(dirPath string) ([]string, error) {
	var result []string
	for _, prefix := range []string{"noun.", "verb.", "adj.", "adv."} {
		matches, err := filepath.Glob(filepath.Join(dirPath, prefix+"*.json"))
		if err != nil {
			return nil, err
		}
		result = append(result, matches...)
	}
	return result, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
