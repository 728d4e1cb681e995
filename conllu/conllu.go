// Package conllu reads and writes CoNLL-U treebanks.
//
// Multiword token ranges (1-2) and empty nodes (1.1) are skipped: the
// agreement engine works on syntactic words only.
package conllu

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/RussianNLP/RuBLiMP/feats"
	"github.com/RussianNLP/RuBLiMP/logger"
	"github.com/RussianNLP/RuBLiMP/types"
)

const (
	FIELD_SEPARATOR    = "\t"
	NUM_FIELDS         = 10
	FEATURES_SEPARATOR = "|"
	FEATURE_SEPARATOR  = "="

	maxLineSize = 1 << 20
)

func parseString(value string) string {
	if value == "_" {
		return ""
	}
	return value
}

func parseInt(value string) (int, error) {
	if value == "_" {
		return 0, nil
	}
	return strconv.Atoi(value)
}

// ParseFeatures splits a FEATS column into the canonical bundle and the
// features the bundle does not model.
func ParseFeatures(featuresStr string) (feats.Bundle, map[string]string, error) {
	var bundle feats.Bundle
	if featuresStr == "_" || featuresStr == "" {
		return bundle, nil, nil
	}

	var extra map[string]string
	for _, featureStr := range strings.Split(featuresStr, FEATURES_SEPARATOR) {
		kv := strings.SplitN(featureStr, FEATURE_SEPARATOR, 2)
		if len(kv) != 2 {
			return bundle, nil, fmt.Errorf("malformed feature %q", featureStr)
		}
		if f, ok := feats.ParseFeature(kv[0]); ok {
			if v, ok := feats.FromUD(f, kv[1]); ok {
				bundle.Set(f, v)
				continue
			}
		}
		if extra == nil {
			extra = make(map[string]string)
		}
		extra[kv[0]] = kv[1]
	}
	return bundle, extra, nil
}

func FormatFeatures(token *types.Token) string {
	all := token.AllFeats()
	if len(all) == 0 {
		return "_"
	}
	strs := make([]string, 0, len(all))
	for k, v := range all {
		strs = append(strs, k+FEATURE_SEPARATOR+v)
	}
	sort.Slice(strs, func(i, j int) bool {
		return strings.ToLower(strs[i]) < strings.ToLower(strs[j])
	})
	return strings.Join(strs, FEATURES_SEPARATOR)
}

// ParseRow parses one word line. ok is false for ranges and empty nodes.
func ParseRow(line string) (token *types.Token, ok bool, err error) {
	record := strings.Split(line, FIELD_SEPARATOR)
	if len(record) != NUM_FIELDS {
		return nil, false, fmt.Errorf("expected %d fields, got %d", NUM_FIELDS, len(record))
	}
	if strings.ContainsAny(record[0], "-.") {
		return nil, false, nil
	}

	id, err := strconv.Atoi(record[0])
	if err != nil {
		return nil, false, fmt.Errorf("error parsing ID field (%s): %w", record[0], err)
	}
	bundle, extra, err := ParseFeatures(record[5])
	if err != nil {
		return nil, false, fmt.Errorf("error parsing FEATS field (%s): %w", record[5], err)
	}
	head, err := parseInt(record[6])
	if err != nil {
		return nil, false, fmt.Errorf("error parsing HEAD field (%s): %w", record[6], err)
	}

	return &types.Token{
		ID:     id,
		Form:   record[1],
		Lemma:  parseString(record[2]),
		UPOS:   parseString(record[3]),
		XPOS:   parseString(record[4]),
		Feats:  bundle,
		Extra:  extra,
		Head:   head,
		Deprel: parseString(record[7]),
		Deps:   parseString(record[8]),
		Misc:   parseString(record[9]),
	}, true, nil
}

// ParseSentence parses a block of comment and word lines.
func ParseSentence(lines []string) (*types.Sentence, error) {
	sent := &types.Sentence{}
	for i, line := range lines {
		if strings.HasPrefix(line, "#") {
			sent.Comments = append(sent.Comments, line)
			key, value, found := strings.Cut(strings.TrimSpace(strings.TrimPrefix(line, "#")), "=")
			if !found {
				continue
			}
			switch strings.TrimSpace(key) {
			case "sent_id":
				sent.ID = strings.TrimSpace(value)
			case "text":
				sent.Text = strings.TrimSpace(value)
			}
			continue
		}
		token, ok, err := ParseRow(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		if ok {
			sent.Tokens = append(sent.Tokens, token)
		}
	}
	if len(sent.Tokens) == 0 {
		return nil, errors.New("sentence has no tokens")
	}
	if sent.Text == "" {
		sent.Text = strings.Join(sent.Forms(), " ")
	}
	return sent, sent.Validate()
}

// ReadStream streams the sentences of r. Malformed sentences are logged and
// skipped. At most limit sentences are sent when limit is positive.
func ReadStream(ctx context.Context, r io.Reader, limit int) (<-chan *types.Sentence, <-chan error) {
	readerLogger := logger.NewLogger("CoNLL-U reader")
	sentences := make(chan *types.Sentence, 2)
	errc := make(chan error, 1)

	go func() {
		defer close(sentences)
		defer close(errc)

		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

		var (
			block        []string
			line         int
			numSentences int
			numSkipped   int
		)

		// flush returns false when reading should stop
		flush := func() bool {
			if len(block) == 0 {
				return true
			}
			sent, err := ParseSentence(block)
			block = block[:0]
			if err != nil {
				numSkipped++
				readerLogger.Warn().Err(err).Int("line", line).Msg("Skipping malformed sentence")
				return true
			}
			if err := ctx.Err(); err != nil {
				errc <- err
				return false
			}
			select {
			case sentences <- sent:
			case <-ctx.Done():
				errc <- ctx.Err()
				return false
			}
			numSentences++
			return limit <= 0 || numSentences < limit
		}

		for scanner.Scan() {
			line++
			text := strings.TrimRight(scanner.Text(), "\r")
			if strings.TrimSpace(text) == "" {
				if !flush() {
					return
				}
				continue
			}
			block = append(block, text)
		}
		if err := scanner.Err(); err != nil {
			errc <- err
			return
		}
		if !flush() {
			return
		}
		readerLogger.Debug().
			Int("sentences", numSentences).
			Int("skipped", numSkipped).
			Msg("Finished reading")
	}()

	return sentences, errc
}

// Read collects up to limit sentences of r.
func Read(r io.Reader, limit int) ([]*types.Sentence, error) {
	sentences, errc := ReadStream(context.Background(), r, limit)
	var out []*types.Sentence
	for sent := range sentences {
		out = append(out, sent)
	}
	return out, <-errc
}

func Serialize(sent *types.Sentence) string {
	var sb strings.Builder
	for _, c := range sent.Comments {
		sb.WriteString(c)
		sb.WriteByte('\n')
	}
	for _, tok := range sent.Tokens {
		fields := []string{
			strconv.Itoa(tok.ID),
			tok.Form,
			tok.Lemma,
			tok.UPOS,
			tok.XPOS,
			FormatFeatures(tok),
			strconv.Itoa(tok.Head),
			tok.Deprel,
			tok.Deps,
			tok.Misc,
		}
		for i, field := range fields {
			if len(field) == 0 {
				fields[i] = "_"
			}
		}
		sb.WriteString(strings.Join(fields, FIELD_SEPARATOR))
		sb.WriteByte('\n')
	}
	sb.WriteByte('\n')
	return sb.String()
}

// Count returns the number of non-empty line blocks in r, malformed ones
// included.
func Count(r io.Reader) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	count := 0
	inBlock := false
	for scanner.Scan() {
		blank := strings.TrimSpace(scanner.Text()) == ""
		if !blank && !inBlock {
			count++
		}
		inBlock = !blank
	}
	return count, scanner.Err()
}
