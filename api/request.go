package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/RussianNLP/RuBLiMP/pipeline"
	"github.com/RussianNLP/RuBLiMP/types"
)

const maxSamplesParam = "max_samples"

type Request struct {
	Pipeline pipeline.Pipeline
}

// ProcessData generates records for a CoNLL-U request body and responds
// with their JSON array.
func (req *Request) ProcessData(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	tid := uuid.NewString()
	logger := makeRequestLogger(r, tid)

	if r.Method != http.MethodPost {
		logger.Err(nil).Int("status", http.StatusMethodNotAllowed).Msg("Only 'POST' method is allowed here")
		http.Error(w, "", http.StatusMethodNotAllowed)
		return
	}

	maxSamples := 0
	if v := r.URL.Query().Get(maxSamplesParam); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			logger.Err(err).Int("status", http.StatusBadRequest).Str(maxSamplesParam, v).Msg("Invalid sample limit")
			http.Error(w, "", http.StatusBadRequest)
			return
		}
		maxSamples = n
	}

	msg, err := io.ReadAll(r.Body)
	if err != nil {
		logger.Err(err).Int("status", http.StatusBadRequest).Msg("Could not read request body")
		http.Error(w, "", http.StatusBadRequest)
		return
	}

	request := pipeline.Request{
		Tid:        tid,
		Text:       string(msg),
		MaxSamples: maxSamples,
	}
	logger.Info().Msg("Starting pipeline for request from API")
	resp := <-req.Pipeline(r.Context(), request)
	if resp.Err != nil {
		logger.Err(resp.Err).Int("status", http.StatusInternalServerError).Msg("Pipeline failed")
		http.Error(w, "", http.StatusInternalServerError)
		return
	}

	records := resp.Records
	if records == nil {
		records = []types.Record{}
	}
	body, err := json.Marshal(records)
	if err != nil {
		logger.Err(err).Int("status", http.StatusInternalServerError).Msg("Could not encode records")
		http.Error(w, "", http.StatusInternalServerError)
		return
	}
	w.Header().Set("X-Request-Id", tid)
	_, _ = w.Write(body)
	logger.Info().
		Int("status", http.StatusOK).
		Int("records", len(records)).
		Msg("Finished processing request")
}
