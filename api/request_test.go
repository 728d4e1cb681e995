package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RussianNLP/RuBLiMP/pipeline"
	"github.com/RussianNLP/RuBLiMP/types"
)

type recordingPipeline struct {
	requests []pipeline.Request
	response pipeline.Response
}

func (p *recordingPipeline) run(_ context.Context, request pipeline.Request) <-chan pipeline.Response {
	p.requests = append(p.requests, request)
	out := make(chan pipeline.Response, 1)
	out <- p.response
	close(out)
	return out
}

func TestProcessData(t *testing.T) {
	t.Run("rejects non POST requests", func(t *testing.T) {
		ppln := &recordingPipeline{}
		req := Request{Pipeline: ppln.run}
		w := httptest.NewRecorder()
		req.ProcessData(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
		assert.Empty(t, ppln.requests)
	})

	t.Run("returns generated records", func(t *testing.T) {
		ppln := &recordingPipeline{response: pipeline.Response{
			Records: []types.Record{{SentenceID: "s1", TargetWord: "читали"}},
		}}
		req := Request{Pipeline: ppln.run}
		w := httptest.NewRecorder()
		req.ProcessData(w, httptest.NewRequest(http.MethodPost, "/?max_samples=5", strings.NewReader("# sent_id = s1\n")))

		require.Equal(t, http.StatusOK, w.Code)
		var records []types.Record
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
		require.Len(t, records, 1)
		assert.Equal(t, "читали", records[0].TargetWord)

		require.Len(t, ppln.requests, 1)
		assert.Equal(t, 5, ppln.requests[0].MaxSamples)
		assert.Equal(t, "# sent_id = s1\n", ppln.requests[0].Text)
		_, err := uuid.Parse(ppln.requests[0].Tid)
		assert.NoError(t, err)
		assert.Equal(t, ppln.requests[0].Tid, w.Header().Get("X-Request-Id"))
	})

	t.Run("encodes no records as an empty array", func(t *testing.T) {
		ppln := &recordingPipeline{}
		req := Request{Pipeline: ppln.run}
		w := httptest.NewRecorder()
		req.ProcessData(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("")))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "[]", w.Body.String())
	})

	t.Run("rejects invalid sample limit", func(t *testing.T) {
		ppln := &recordingPipeline{}
		req := Request{Pipeline: ppln.run}
		w := httptest.NewRecorder()
		req.ProcessData(w, httptest.NewRequest(http.MethodPost, "/?max_samples=many", strings.NewReader("")))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, ppln.requests)
	})

	t.Run("reports pipeline failure", func(t *testing.T) {
		ppln := &recordingPipeline{response: pipeline.Response{Err: errors.New("scanner failed")}}
		req := Request{Pipeline: ppln.run}
		w := httptest.NewRecorder()
		req.ProcessData(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("x")))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
