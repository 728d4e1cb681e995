package pipeline

import "github.com/RussianNLP/RuBLiMP/types"

// Request carries a CoNLL-U document to run through a pipeline.
type Request struct {
	Text       string `json:"text"`
	Tid        string `json:"tid"`
	MaxSamples int    `json:"max_samples"`
}

type Response struct {
	Records []types.Record `json:"records"`
	Stats   Stats          `json:"stats"`
	Err     error          `json:"-"`
}
