package types

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Record is one generated minimal pair.
type Record struct {
	SentenceID        string                 `json:"sentence_id"`
	SourceSentence    string                 `json:"source_sentence"`
	TargetSentence    string                 `json:"target_sentence"`
	Annotation        string                 `json:"annotation"`
	Phenomenon        string                 `json:"phenomenon"`
	PhenomenonSubtype string                 `json:"phenomenon_subtype"`
	SourceWord        string                 `json:"source_word"`
	TargetWord        string                 `json:"target_word"`
	SourceWordFeats   map[string]interface{} `json:"source_word_feats"`
	TargetWordFeats   map[string]interface{} `json:"target_word_feats"`
	Feature           string                 `json:"feature"`
	Length            int                    `json:"length"`
	IPM               float64                `json:"ipm"`
	TreeDepth         int                    `json:"tree_depth"`
	SentenceFeats     map[string]interface{} `json:"sentence_feats"`
}

var RecordColumns = []string{
	"sentence_id", "source_sentence", "target_sentence", "annotation",
	"phenomenon", "phenomenon_subtype", "source_word", "target_word",
	"source_word_feats", "target_word_feats", "feature", "length", "ipm",
	"tree_depth", "sentence_feats",
}

// Row renders the record in RecordColumns order. Nested maps are JSON.
func (r Record) Row() ([]string, error) {
	nested := make([]string, 0, 3)
	for _, m := range []map[string]interface{}{r.SourceWordFeats, r.TargetWordFeats, r.SentenceFeats} {
		b, err := json.Marshal(m)
		if err != nil {
			return nil, fmt.Errorf("record %s: %w", r.SentenceID, err)
		}
		nested = append(nested, string(b))
	}
	return []string{
		r.SentenceID, r.SourceSentence, r.TargetSentence, r.Annotation,
		r.Phenomenon, r.PhenomenonSubtype, r.SourceWord, r.TargetWord,
		nested[0], nested[1], r.Feature,
		strconv.Itoa(r.Length),
		strconv.FormatFloat(r.IPM, 'f', -1, 64),
		strconv.Itoa(r.TreeDepth),
		nested[2],
	}, nil
}

type SkipReason string

const (
	SkipNone           SkipReason = ""
	SkipNoRelations    SkipReason = "no_relations"
	SkipNoAlternations SkipReason = "no_alternations"
	SkipFault          SkipReason = "fault"
)

// Result is the outcome of generating pairs for one sentence.
type Result struct {
	SentenceID string
	Records    []Record
	Skip       SkipReason
	Err        error
}
