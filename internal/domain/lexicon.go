package domain

import "time"

// LexicalEntry is the aggregated view of one (lemma, part-of-speech) pair.
// All list fields are deduplicated and sorted in byte order.
type LexicalEntry struct {
	Lemma       string       `json:"-"`
	POS         PartOfSpeech `json:"pos"`
	Definitions []string     `json:"definitions"`
	Hypernyms   []string     `json:"hypernyms"`
	Synonyms    []string     `json:"synonyms"`
	Examples    []string     `json:"examples"`
}

// Lemma is a row of the lemma table, populated from the frequency list.
type Lemma struct {
	ID              int64
	Text            string
	LanguageID      int64
	Frequency       int64
	Rank            int64
	DispersionScore float64
	CreatedAt       time.Time
}

// LemmaRef is the minimal projection used to build the lemma resolution cache.
type LemmaRef struct {
	ID    int64  `db:"id"`
	Lemma string `db:"lemma"`
}

// Definition is one persisted definition row. Order is 1-based within
// a (lemma, pos) pair.
type Definition struct {
	ID        int64
	LemmaID   int64
	POS       PartOfSpeech
	Text      string
	Order     int
	Example   *string
	Hypernyms []string
}

// CrossReference is a located occurrence of a known lemma inside a
// definition or example text. Offset counts characters in the
// whitespace-normalized text.
type CrossReference struct {
	OwnerID       int64
	TargetLemmaID int64
	Offset        int
	Text          string
	Kind          ReferenceKind
}

// SynonymEdge links two lemmas that share a sense under the given part of speech.
type SynonymEdge struct {
	LemmaID        int64
	SynonymLemmaID int64
	POS            PartOfSpeech
	Score          float64
}

// DefaultSynonymScore is the similarity weight written for every synonym edge.
const DefaultSynonymScore = 1.0

// LoadRun records one execution of a pipeline phase.
type LoadRun struct {
	ID         string
	Phase      string
	Status     LoadRunStatus
	StartedAt  time.Time
	FinishedAt *time.Time
	Report     []byte
}

// StoreStats is the statistics snapshot reported after a load.
type StoreStats struct {
	TotalDefinitions      int64            `json:"total_definitions"`
	TotalSynonyms         int64            `json:"total_synonyms"`
	TotalReferences       int64            `json:"total_word_references"`
	LemmasWithDefinitions int64            `json:"lemmas_with_definitions"`
	DefinitionsByPOS      map[string]int64 `json:"definitions_by_pos"`
	ReferencesByKind      map[string]int64 `json:"references_by_kind"`
	TableCounts           map[string]int64 `json:"table_counts"`
}

// ReferenceSample is a cross-reference joined with its owning and target lemmas,
// used to eyeball the clickable-word output after a load.
type ReferenceSample struct {
	SourceLemma string `db:"source_lemma"`
	Definition  string `db:"definition_text"`
	WordText    string `db:"word_text"`
	Position    int    `db:"word_position"`
	TargetLemma string `db:"target_lemma"`
	Kind        string `db:"reference_type"`
}

// GraphSyncStats counts the nodes and relationships sent to the graph store.
type GraphSyncStats struct {
	Nodes     int `json:"nodes"`
	Synonyms  int `json:"synonym_edges"`
	Hypernyms int `json:"hypernym_edges"`
}
