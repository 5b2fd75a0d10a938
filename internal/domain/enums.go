package domain

// PartOfSpeech is the part-of-speech tag carried by the lexical resource.
// WordNet sources use the single-letter codes below; other tags pass through unchanged.
type PartOfSpeech string

const (
	PartOfSpeechNoun               PartOfSpeech = "n"
	PartOfSpeechVerb               PartOfSpeech = "v"
	PartOfSpeechAdjective          PartOfSpeech = "a"
	PartOfSpeechAdjectiveSatellite PartOfSpeech = "s"
	PartOfSpeechAdverb             PartOfSpeech = "r"
)

func (p PartOfSpeech) String() string { return string(p) }

func (p PartOfSpeech) IsValid() bool {
	return p != ""
}

// IsWordNet reports whether p is one of the WordNet single-letter codes.
func (p PartOfSpeech) IsWordNet() bool {
	switch p {
	case PartOfSpeechNoun, PartOfSpeechVerb, PartOfSpeechAdjective,
		PartOfSpeechAdjectiveSatellite, PartOfSpeechAdverb:
		return true
	}
	return false
}

// Label returns a human-readable name for WordNet codes and the raw tag otherwise.
func (p PartOfSpeech) Label() string {
	switch p {
	case PartOfSpeechNoun:
		return "noun"
	case PartOfSpeechVerb:
		return "verb"
	case PartOfSpeechAdjective:
		return "adjective"
	case PartOfSpeechAdjectiveSatellite:
		return "adjective satellite"
	case PartOfSpeechAdverb:
		return "adverb"
	}
	return string(p)
}

// ReferenceKind says which text of a definition row a cross-reference was found in.
type ReferenceKind string

const (
	ReferenceKindDefinition ReferenceKind = "definition"
	ReferenceKindExample    ReferenceKind = "example"
)

func (k ReferenceKind) String() string { return string(k) }

func (k ReferenceKind) IsValid() bool {
	switch k {
	case ReferenceKindDefinition, ReferenceKindExample:
		return true
	}
	return false
}

// LoadRunStatus is the terminal state of a recorded load run.
type LoadRunStatus string

const (
	LoadRunStatusRunning   LoadRunStatus = "running"
	LoadRunStatusSucceeded LoadRunStatus = "succeeded"
	LoadRunStatusFailed    LoadRunStatus = "failed"
	LoadRunStatusDryRun    LoadRunStatus = "dry_run"
)

func (s LoadRunStatus) String() string { return string(s) }
