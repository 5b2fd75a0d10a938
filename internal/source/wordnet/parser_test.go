package wordnet

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/klauspost/compress/gzip"

	"github.com/heartmarshall/lexigraph/internal/domain"
	"github.com/heartmarshall/lexigraph/internal/lexicon"
)

func testdataPath(t *testing.T, name string) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine test file path")
	}
	return filepath.Join(filepath.Dir(file), "testdata", name)
}

// writeFile is a test helper that creates a file with given content.
func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}

// --- Parse: dispatch and file handling ---

func TestParse_FileNotFound(t *testing.T) {
	if _, err := Parse("/nonexistent/wn.xml"); err == nil {
		t.Error("Parse should return error for missing file")
	}
}

func TestParse_InvalidXML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.xml")
	if err := writeFile(path, "<LexicalResource><Lexicon>"); err != nil {
		t.Fatal(err)
	}

	_, err := Parse(path)
	if !errors.Is(err, domain.ErrSourceFormat) {
		t.Errorf("expected ErrSourceFormat, got %v", err)
	}
}

func TestParse_NotLMF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "other.xml")
	if err := writeFile(path, "<html><body/></html>"); err != nil {
		t.Fatal(err)
	}

	_, err := Parse(path)
	if !errors.Is(err, domain.ErrSourceFormat) {
		t.Errorf("expected ErrSourceFormat, got %v", err)
	}
}

// --- LMF ---

func TestParseLMF_Sample(t *testing.T) {
	result, err := Parse(testdataPath(t, "sample.xml"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	want := Stats{TotalEntries: 4, TotalSenses: 3, TotalSynsets: 2, HypernymEdges: 1, SkippedEntries: 1}
	if result.Stats != want {
		t.Errorf("stats = %+v, want %+v", result.Stats, want)
	}

	entries := result.Resource.Entries
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	dog := entries[0]
	if dog.WrittenForm != "dog" || dog.POS != domain.PartOfSpeechNoun {
		t.Errorf("entry[0] = %q/%q", dog.WrittenForm, dog.POS)
	}
	if len(dog.Senses) != 1 || dog.Senses[0].Synset != "oewn-02086723-n" {
		t.Fatalf("dog senses = %+v", dog.Senses)
	}
	if len(dog.Senses[0].Examples) != 1 || dog.Senses[0].Examples[0] != "the dog barked all night" {
		t.Errorf("sense examples = %v", dog.Senses[0].Examples)
	}
	if entries[1].WrittenForm != "domestic dog" {
		t.Errorf("multiword lemma = %q", entries[1].WrittenForm)
	}

	synset := result.Resource.Synsets[0]
	if synset.Definition != "a member of the genus Canis" {
		t.Errorf("definition = %q", synset.Definition)
	}
	if len(synset.Hypernyms) != 1 || synset.Hypernyms[0] != "oewn-02085998-n" {
		t.Errorf("hypernyms = %v, only hypernym relations should be kept", synset.Hypernyms)
	}
	if len(synset.Examples) != 1 {
		t.Errorf("synset examples = %v", synset.Examples)
	}
}

func TestParseLMF_Gzip(t *testing.T) {
	src, err := os.ReadFile(testdataPath(t, "sample.xml"))
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "wn.xml.gz")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := gzip.NewWriter(f)
	if _, err := zw.Write(src); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	result, err := Parse(path)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(result.Resource.Entries) != 3 || len(result.Resource.Synsets) != 2 {
		t.Errorf("got %d entries, %d synsets", len(result.Resource.Entries), len(result.Resource.Synsets))
	}
}

func TestParseLMF_FeedsAggregate(t *testing.T) {
	result, err := Parse(testdataPath(t, "sample.xml"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	g := lexicon.BuildGraph(result.Resource)
	entries := lexicon.Aggregate(g, result.Resource.Entries)

	var dog *domain.LexicalEntry
	for i := range entries {
		if entries[i].Lemma == "dog" {
			dog = &entries[i]
		}
	}
	if dog == nil {
		t.Fatal("dog entry missing")
	}
	if len(dog.Hypernyms) != 1 || dog.Hypernyms[0] != "canine" {
		t.Errorf("hypernyms = %v, want [canine]", dog.Hypernyms)
	}
	if len(dog.Synonyms) != 1 || dog.Synonyms[0] != "domestic dog" {
		t.Errorf("synonyms = %v, want [domestic dog]", dog.Synonyms)
	}
	if len(dog.Examples) != 2 {
		t.Errorf("examples = %v, want sense and synset example", dog.Examples)
	}
}

// --- OEWN JSON ---

func writeOEWN(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"entries-d.json": `{
			"dog": {"n": {"sense": [{"id": "dog%1:05:00::", "synset": "02086723-n"}]}},
			"domestic dog": {"n": {"sense": [{"id": "domestic_dog%1:05:00::", "synset": "02086723-n"}]}}
		}`,
		"entries-c.json": `{
			"canine": {
				"n": {"sense": [{"id": "canine%1:05:00::", "synset": "02085998-n"}]},
				"a": {"sense": [{"id": "canine%3:01:00::", "synset": "01234567-a", "example": ["canine teeth"]}]}
			}
		}`,
		"noun.animal.json": `{
			"02086723-n": {
				"definition": ["", "a member of the genus Canis"],
				"example": ["the dog barked", {"text": "a loyal dog", "source": "corpus"}],
				"hypernym": ["02085998-n"],
				"members": ["dog", "domestic dog"]
			},
			"02085998-n": {"definition": ["any of various fissiped mammals"], "members": ["canine"]}
		}`,
		"adj.pert.json": `{"01234567-a": {"definition": ["of or relating to dogs"], "members": ["canine"]}}`,
		"frames.json":   `{"via": "ignored"}`,
	}
	for name, content := range files {
		if err := writeFile(filepath.Join(dir, name), content); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestParseOEWN_Directory(t *testing.T) {
	result, err := Parse(writeOEWN(t))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if result.Stats.TotalEntries != 4 {
		t.Errorf("TotalEntries = %d, want 4", result.Stats.TotalEntries)
	}
	if result.Stats.TotalSynsets != 3 {
		t.Errorf("TotalSynsets = %d, want 3", result.Stats.TotalSynsets)
	}
	if result.Stats.HypernymEdges != 1 {
		t.Errorf("HypernymEdges = %d, want 1", result.Stats.HypernymEdges)
	}

	// entries-c.json sorts first; canine's POS keys sort a before n.
	first := result.Resource.Entries[0]
	if first.WrittenForm != "canine" || first.POS != domain.PartOfSpeechAdjective {
		t.Errorf("first entry = %q/%q", first.WrittenForm, first.POS)
	}
	if len(first.Senses[0].Examples) != 1 || first.Senses[0].Examples[0] != "canine teeth" {
		t.Errorf("sense examples = %v", first.Senses[0].Examples)
	}

	var dogSynset *lexicon.RawSynset
	for i := range result.Resource.Synsets {
		if result.Resource.Synsets[i].ID == "02086723-n" {
			dogSynset = &result.Resource.Synsets[i]
		}
	}
	if dogSynset == nil {
		t.Fatal("synset 02086723-n missing")
	}
	if dogSynset.Definition != "a member of the genus Canis" {
		t.Errorf("definition = %q, want first non-empty", dogSynset.Definition)
	}
	if len(dogSynset.Examples) != 2 || dogSynset.Examples[1] != "a loyal dog" {
		t.Errorf("examples = %v", dogSynset.Examples)
	}
}

func TestParseOEWN_NoEntryFiles(t *testing.T) {
	_, err := Parse(t.TempDir())
	if !errors.Is(err, domain.ErrSourceFormat) {
		t.Errorf("expected ErrSourceFormat, got %v", err)
	}
}

func TestParseOEWN_InvalidJSON(t *testing.T) {
	dir := t.TempDir()
	if err := writeFile(filepath.Join(dir, "entries-a.json"), "not json"); err != nil {
		t.Fatal(err)
	}

	_, err := Parse(dir)
	var srcErr *domain.SourceError
	if !errors.As(err, &srcErr) {
		t.Fatalf("expected SourceError, got %v", err)
	}
	if filepath.Base(srcErr.Path) != "entries-a.json" {
		t.Errorf("path = %q", srcErr.Path)
	}
}
