// Package wordnet parses Open English WordNet releases into a lexicon.Resource.
// Pure function: path in, parsed resource out. No database dependencies.
//
// Two release layouts are supported:
//
//	wn.xml / wn.xml.gz                  GWN-LMF XML, a single file
//	entries-*.json + {pos}.*.json       OEWN JSON, a directory
package wordnet

import (
	"fmt"
	"os"

	"github.com/heartmarshall/lexigraph/internal/lexicon"
)

// ParseResult holds the parsed resource and parser statistics.
type ParseResult struct {
	Resource lexicon.Resource
	Stats    Stats
}

// Stats holds parser statistics for logging.
type Stats struct {
	TotalEntries   int
	TotalSenses    int
	TotalSynsets   int
	HypernymEdges  int
	SkippedEntries int
}

// Parse reads a WordNet release. A directory is read as OEWN JSON,
// anything else as GWN-LMF XML (optionally gzip-compressed).
func Parse(path string) (ParseResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return ParseResult{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return ParseOEWN(path)
	}
	return ParseLMF(path)
}
