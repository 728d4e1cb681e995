package utils

import (
	"bufio"
	"io"
	"os"
	"path"
	"strings"

	"github.com/RussianNLP/RuBLiMP/logger"
)

type GetHashFunc func(columns []string) uint64

// NewBSVReader streams the pipe-separated rows of a file.
func NewBSVReader(bsvPath string, getHash GetHashFunc) (<-chan []string, error) {
	return NewDelimitedReader(bsvPath, "|", getHash)
}

// NewDelimitedReader streams the rows of a file split by sep. Comment lines
// starting with '#' or '//' are skipped. When getHash is set, rows with an
// already seen hash are dropped.
func NewDelimitedReader(filePath string, sep string, getHash GetHashFunc) (<-chan []string, error) {
	_, fileName := path.Split(filePath)
	readerLogger := logger.NewLogger("DelimitedReader (" + fileName + ")")

	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}

	out := make(chan []string)

	go func() {
		defer f.Close()
		defer close(out)

		r := bufio.NewReader(f)

		var hashes = make(map[uint64]bool)

		for {
			line, err := r.ReadString('\n')
			if len(line) == 0 {
				if err == io.EOF {
					break
				} else if err != nil {
					readerLogger.Error().Err(err).Msg("Failed to read line")
					return
				}
			}

			line = strings.TrimRight(line, "\r\n")
			if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
				continue
			}
			columns := strings.Split(line, sep)

			if getHash != nil {
				hash := getHash(columns)
				if hashes[hash] {
					continue
				}
				hashes[hash] = true
			}

			out <- columns
		}
	}()

	return out, nil
}
