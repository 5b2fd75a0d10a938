package wordnet

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/heartmarshall/lexigraph/internal/domain"
	"github.com/heartmarshall/lexigraph/internal/lexicon"
	"github.com/heartmarshall/lexigraph/internal/source/sourcefile"
)

const relHypernym = "hypernym"

// GWN-LMF XML deserialization types.

type lmfEntry struct {
	ID    string `xml:"id,attr"`
	Lemma struct {
		WrittenForm  string `xml:"writtenForm,attr"`
		PartOfSpeech string `xml:"partOfSpeech,attr"`
	} `xml:"Lemma"`
	Senses []lmfSense `xml:"Sense"`
}

type lmfSense struct {
	ID       string   `xml:"id,attr"`
	Synset   string   `xml:"synset,attr"`
	Examples []string `xml:"Example"`
}

type lmfSynset struct {
	ID          string        `xml:"id,attr"`
	Definitions []string      `xml:"Definition"`
	Examples    []string      `xml:"Example"`
	Relations   []lmfRelation `xml:"SynsetRelation"`
}

type lmfRelation struct {
	RelType string `xml:"relType,attr"`
	Target  string `xml:"target,attr"`
}

// ParseLMF streams a GWN-LMF XML file. Entries and synsets are decoded one
// element at a time, so the whole document never sits in memory as a tree.
func ParseLMF(path string) (ParseResult, error) {
	rc, err := sourcefile.Open(path)
	if err != nil {
		return ParseResult{}, err
	}
	defer rc.Close()

	result, err := decodeLMF(rc)
	if err != nil {
		return ParseResult{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return result, nil
}

func decodeLMF(r io.Reader) (ParseResult, error) {
	dec := xml.NewDecoder(r)

	var (
		result    ParseResult
		sawLexRes bool
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return ParseResult{}, fmt.Errorf("%w: %v", domain.ErrSourceFormat, err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		switch start.Name.Local {
		case "LexicalResource", "Lexicon":
			sawLexRes = true
		case "LexicalEntry":
			var e lmfEntry
			if err := dec.DecodeElement(&e, &start); err != nil {
				return ParseResult{}, fmt.Errorf("%w: entry: %v", domain.ErrSourceFormat, err)
			}
			result.addEntry(e)
		case "Synset":
			var s lmfSynset
			if err := dec.DecodeElement(&s, &start); err != nil {
				return ParseResult{}, fmt.Errorf("%w: synset: %v", domain.ErrSourceFormat, err)
			}
			result.addSynset(s)
		}
	}

	if !sawLexRes {
		return ParseResult{}, fmt.Errorf("%w: no LexicalResource element", domain.ErrSourceFormat)
	}
	return result, nil
}

func (r *ParseResult) addEntry(e lmfEntry) {
	r.Stats.TotalEntries++
	form := strings.TrimSpace(e.Lemma.WrittenForm)
	if form == "" {
		r.Stats.SkippedEntries++
		return
	}

	raw := lexicon.RawEntry{
		WrittenForm: form,
		POS:         domain.PartOfSpeech(e.Lemma.PartOfSpeech),
		Senses:      make([]lexicon.RawSense, 0, len(e.Senses)),
	}
	for _, s := range e.Senses {
		raw.Senses = append(raw.Senses, lexicon.RawSense{
			ID:       s.ID,
			Synset:   s.Synset,
			Examples: s.Examples,
		})
	}
	r.Stats.TotalSenses += len(raw.Senses)
	r.Resource.Entries = append(r.Resource.Entries, raw)
}

func (r *ParseResult) addSynset(s lmfSynset) {
	r.Stats.TotalSynsets++

	raw := lexicon.RawSynset{
		ID:       s.ID,
		Examples: s.Examples,
	}
	for _, d := range s.Definitions {
		if d = strings.TrimSpace(d); d != "" {
			raw.Definition = d
			break
		}
	}
	for _, rel := range s.Relations {
		if rel.RelType == relHypernym && rel.Target != "" {
			raw.Hypernyms = append(raw.Hypernyms, rel.Target)
		}
	}
	r.Stats.HypernymEdges += len(raw.Hypernyms)
	r.Resource.Synsets = append(r.Resource.Synsets, raw)
}
