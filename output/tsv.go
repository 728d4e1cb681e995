// Package output writes generated records as tab-separated datasets.
package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/RussianNLP/RuBLiMP/types"
)

const Extension = ".tsv"

// WriteTSV writes a header row followed by one row per record. Fields with
// tabs, quotes or newlines are quoted.
func WriteTSV(w io.Writer, records []types.Record) error {
	tsv := csv.NewWriter(w)
	tsv.Comma = '\t'

	if err := tsv.Write(types.RecordColumns); err != nil {
		return err
	}
	for _, rec := range records {
		row, err := rec.Row()
		if err != nil {
			return err
		}
		if err := tsv.Write(row); err != nil {
			return err
		}
	}
	tsv.Flush()
	return tsv.Error()
}

func EncodeTSV(records []types.Record) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteTSV(&buf, records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ShardName strips directories and extensions from a shard path.
func ShardName(shardPath string) string {
	name := filepath.Base(shardPath)
	for ext := filepath.Ext(name); ext != ""; ext = filepath.Ext(name) {
		name = strings.TrimSuffix(name, ext)
	}
	return name
}

// ShardPath is <outDir>/<phenomenon>/<shard name>.tsv.
func ShardPath(outDir, phenomenon, shardPath string) string {
	return filepath.Join(outDir, phenomenon, ShardName(shardPath)+Extension)
}

// WriteShard writes records to ShardPath and returns the path written.
func WriteShard(outDir, phenomenon, shardPath string, records []types.Record) (string, error) {
	target := ShardPath(outDir, phenomenon, shardPath)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	f, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("create output file: %w", err)
	}
	if err := WriteTSV(f, records); err != nil {
		f.Close()
		return "", fmt.Errorf("write %s: %w", target, err)
	}
	return target, f.Close()
}
