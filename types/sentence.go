package types

import (
	"fmt"
	"sort"
)

// Sentence owns its tokens; everything else refers to them by id.
type Sentence struct {
	ID       string
	Text     string
	Comments []string
	Tokens   []*Token
}

func (sent *Sentence) Len() int {
	return len(sent.Tokens)
}

// Token returns the token with the given 1-based id, or nil.
func (sent *Sentence) Token(id int) *Token {
	if id < 1 || id > len(sent.Tokens) {
		return nil
	}
	return sent.Tokens[id-1]
}

func (sent *Sentence) Filter(pred func(*Token) bool) []*Token {
	var out []*Token
	for _, tok := range sent.Tokens {
		if pred(tok) {
			out = append(out, tok)
		}
	}
	return out
}

// Dependents returns the direct dependents of id, optionally restricted to
// the given relations.
func (sent *Sentence) Dependents(id int, deprels ...string) []*Token {
	return sent.Filter(func(tok *Token) bool {
		if tok.Head != id {
			return false
		}
		if len(deprels) == 0 {
			return true
		}
		for _, d := range deprels {
			if tok.Deprel == d {
				return true
			}
		}
		return false
	})
}

// Constituent returns head and its descendants sorted by id. A dependent
// for which exclude returns true is dropped together with its subtree.
func (sent *Sentence) Constituent(head *Token, exclude func(*Token) bool) []*Token {
	out := sent.collect(head, exclude, map[int]bool{})
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out
}

func (sent *Sentence) collect(head *Token, exclude func(*Token) bool, seen map[int]bool) []*Token {
	if seen[head.ID] {
		return nil
	}
	seen[head.ID] = true

	out := []*Token{head}
	for _, dep := range sent.Dependents(head.ID) {
		if dep.Deprel == "root" {
			continue
		}
		if exclude != nil && exclude(dep) {
			continue
		}
		out = append(out, sent.collect(dep, exclude, seen)...)
	}
	return out
}

// TreeDepth counts the nodes that have dependents, walking from the root.
func (sent *Sentence) TreeDepth() int {
	roots := sent.Dependents(0)
	if len(roots) == 0 {
		return 0
	}

	depth := 0
	seen := map[int]bool{}
	stack := []*Token{roots[0]}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[cur.ID] {
			continue
		}
		seen[cur.ID] = true

		children := sent.Dependents(cur.ID)
		if len(children) > 0 {
			depth++
		}
		stack = append(stack, children...)
	}
	return depth
}

func (sent *Sentence) Forms() []string {
	out := make([]string, len(sent.Tokens))
	for i, tok := range sent.Tokens {
		out[i] = tok.Form
	}
	return out
}

// Clone deep-copies the tokens so that feature write-backs stay local.
func (sent *Sentence) Clone() *Sentence {
	out := &Sentence{
		ID:       sent.ID,
		Text:     sent.Text,
		Comments: append([]string(nil), sent.Comments...),
		Tokens:   make([]*Token, len(sent.Tokens)),
	}
	for i, tok := range sent.Tokens {
		out.Tokens[i] = tok.Clone()
	}
	return out
}

// Validate checks that ids are dense from 1 and heads point inside.
func (sent *Sentence) Validate() error {
	for i, tok := range sent.Tokens {
		if tok.ID != i+1 {
			return fmt.Errorf("sentence %s: token %d has id %d", sent.ID, i+1, tok.ID)
		}
		if tok.Head < 0 || tok.Head > len(sent.Tokens) {
			return fmt.Errorf("sentence %s: token %d has head %d out of range", sent.ID, tok.ID, tok.Head)
		}
	}
	return nil
}
