// Package frequency parses a lemma frequency list (CSV) into lemma rows.
// Pure function: file path in, domain structs out. No database dependencies.
//
// Expected header (column order is free, names are case-insensitive):
//
//	lemma,PoS,lemFreq,lemRank,disp
//
// Only "lemma" is required. The list is keyed by (lemma, PoS) upstream;
// the first row of each lemma wins.
package frequency

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/heartmarshall/lexigraph/internal/domain"
	"github.com/heartmarshall/lexigraph/internal/source/sourcefile"
)

const (
	colLemma = "lemma"
	colFreq  = "lemfreq"
	colRank  = "lemrank"
	colDisp  = "disp"
)

// Stats holds parser statistics for logging.
type Stats struct {
	Rows       int
	Lemmas     int
	Duplicates int
	Empty      int
}

// Parse reads a frequency CSV (optionally gzip-compressed) at path.
func Parse(path string) ([]domain.Lemma, Stats, error) {
	rc, err := sourcefile.Open(path)
	if err != nil {
		return nil, Stats{}, err
	}
	defer rc.Close()

	lemmas, stats, err := parse(rc)
	if err != nil {
		var srcErr *domain.SourceError
		if errors.As(err, &srcErr) {
			srcErr.Path = path
			return nil, Stats{}, srcErr
		}
		return nil, Stats{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return lemmas, stats, nil
}

func parse(r io.Reader) ([]domain.Lemma, Stats, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // allow variable column count
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, Stats{}, nil
	}
	if err != nil {
		return nil, Stats{}, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
	}
	lemmaCol, ok := cols[colLemma]
	if !ok {
		return nil, Stats{}, &domain.SourceError{Line: 1, Msg: "missing lemma column"}
	}

	var (
		stats  Stats
		lemmas []domain.Lemma
		seen   = make(map[string]bool)
	)

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, Stats{}, fmt.Errorf("read row: %w", err)
		}
		stats.Rows++
		line, _ := reader.FieldPos(0)

		word := domain.NormalizeText(field(record, lemmaCol))
		if word == "" {
			stats.Empty++
			continue
		}
		if seen[word] {
			stats.Duplicates++
			continue
		}
		seen[word] = true

		lemma := domain.Lemma{Text: word}
		if lemma.Frequency, err = intField(record, cols, colFreq); err != nil {
			return nil, Stats{}, &domain.SourceError{Line: line, Msg: err.Error()}
		}
		if lemma.Rank, err = intField(record, cols, colRank); err != nil {
			return nil, Stats{}, &domain.SourceError{Line: line, Msg: err.Error()}
		}
		if lemma.DispersionScore, err = floatField(record, cols, colDisp); err != nil {
			return nil, Stats{}, &domain.SourceError{Line: line, Msg: err.Error()}
		}
		lemmas = append(lemmas, lemma)
	}

	stats.Lemmas = len(lemmas)
	return lemmas, stats, nil
}

func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// intField parses an optional integer column. Missing or blank cells are zero.
// Values like "12.0" produced by spreadsheet exports are accepted.
func intField(record []string, cols map[string]int, name string) (int64, error) {
	idx, ok := cols[name]
	if !ok {
		return 0, nil
	}
	s := field(record, idx)
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid number %q", name, s)
	}
	return int64(f), nil
}

func floatField(record []string, cols map[string]int, name string) (float64, error) {
	idx, ok := cols[name]
	if !ok {
		return 0, nil
	}
	s := field(record, idx)
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid number %q", name, s)
	}
	return f, nil
}
