package loader

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/heartmarshall/lexigraph/internal/domain"
)

// WriteExport writes entries as {lemma: [{pos, definitions, hypernyms,
// synonyms, examples}, ...]} to path. A ".gz" suffix gzips the output.
func WriteExport(path string, entries []domain.LexicalEntry) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close export: %w", cerr)
		}
	}()

	bw := bufio.NewWriter(f)
	var w io.Writer = bw
	var zw *gzip.Writer
	if strings.HasSuffix(path, ".gz") {
		zw = gzip.NewWriter(bw)
		w = zw
	}

	if err := encodeExport(w, entries); err != nil {
		return err
	}
	if zw != nil {
		if err := zw.Close(); err != nil {
			return fmt.Errorf("close gzip: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush export: %w", err)
	}
	return nil
}

func encodeExport(w io.Writer, entries []domain.LexicalEntry) error {
	byLemma := make(map[string][]domain.LexicalEntry)
	for _, e := range entries {
		e.Definitions = nonNil(e.Definitions)
		e.Hypernyms = nonNil(e.Hypernyms)
		e.Synonyms = nonNil(e.Synonyms)
		e.Examples = nonNil(e.Examples)
		byLemma[e.Lemma] = append(byLemma[e.Lemma], e)
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(byLemma); err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	return nil
}

func nonNil(sl []string) []string {
	if sl == nil {
		return []string{}
	}
	return sl
}
