package redis

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type shardDoc struct {
	Status   string `json:"status"`
	Attempts int    `json:"attempts"`
}

func TestMergeDocument(t *testing.T) {
	raw := []byte(`{"status":"submitted","attempts":1,"owner":"scheduler","meta":{"size":10}}`)

	t.Run("keeps fields outside the document type", func(t *testing.T) {
		var doc shardDoc
		merged, err := MergeDocument(raw, &doc, func() error {
			doc.Status = "completed"
			doc.Attempts++
			return nil
		})
		require.NoError(t, err)

		var got map[string]interface{}
		require.NoError(t, json.Unmarshal(merged, &got))
		assert.Equal(t, "completed", got["status"])
		assert.Equal(t, float64(2), got["attempts"])
		assert.Equal(t, "scheduler", got["owner"])
		assert.Equal(t, map[string]interface{}{"size": float64(10)}, got["meta"])
	})

	t.Run("propagates update errors", func(t *testing.T) {
		var doc shardDoc
		_, err := MergeDocument(raw, &doc, func() error { return errors.New("canceled") })
		assert.EqualError(t, err, "canceled")
	})

	t.Run("rejects malformed documents", func(t *testing.T) {
		var doc shardDoc
		_, err := MergeDocument([]byte("{"), &doc, func() error { return nil })
		assert.Error(t, err)
	})
}
