package robotsyr

import "github.com/pkg/errors"

// SymbolTable resolves textual grammar tokens to the identifiers the grammar
// engine assigned them.
type SymbolTable interface {
	Resolve(token string) (SymbolID, bool)
}

// MaxSymbols is the number of distinct tokens an Interner can hold.
const MaxSymbols = 1 << 16

// Interner is a simple in-memory SymbolTable that hands out identifiers in
// insertion order. It is not safe for concurrent Intern calls.
type Interner struct {
	ids    map[string]SymbolID
	tokens []string
}

func NewInterner() *Interner {
	return &Interner{ids: make(map[string]SymbolID)}
}

// Intern returns the identifier of token, assigning the next free one if the
// token was never seen.
func (in *Interner) Intern(token string) (SymbolID, error) {
	if id, ok := in.ids[token]; ok {
		return id, nil
	}
	if len(in.tokens) >= MaxSymbols {
		return 0, errors.Errorf("symbol table full, cannot intern %q", token)
	}
	id := SymbolID(len(in.tokens))
	in.ids[token] = id
	in.tokens = append(in.tokens, token)
	return id, nil
}

func (in *Interner) Resolve(token string) (SymbolID, bool) {
	id, ok := in.ids[token]
	return id, ok
}

// Token is the reverse lookup of Resolve.
func (in *Interner) Token(id SymbolID) (string, bool) {
	if int(id) >= len(in.tokens) {
		return "", false
	}
	return in.tokens[id], true
}

func (in *Interner) Len() int {
	return len(in.tokens)
}
