package robotsyr

import (
	"strconv"
	"strings"
)

// SymbolID identifies a grammar token once it has been interned by a SymbolTable.
type SymbolID uint16

// Symbol is one element of a derived genotype.
type Symbol struct {
	ID SymbolID

	// Primary is the engine's own per-symbol value (e.g. age). It is carried
	// along but never read by the interpreter.
	Primary float64

	Parameters []float64
}

// Param returns the i-th parameter, or def when the symbol carries fewer.
func (s Symbol) Param(i int, def float64) float64 {
	if i < len(s.Parameters) {
		return s.Parameters[i]
	}
	return def
}

// String renders the symbol as its identifier followed by its parameters,
// e.g. "#3(1, 0.5)".
func (s Symbol) String() string {
	var b strings.Builder
	b.WriteString("#")
	b.WriteString(strconv.FormatUint(uint64(s.ID), 10))
	if len(s.Parameters) > 0 {
		params := make([]string, len(s.Parameters))
		for i, p := range s.Parameters {
			params[i] = strconv.FormatFloat(p, 'g', -1, 64)
		}
		b.WriteString("(" + strings.Join(params, ", ") + ")")
	}
	return b.String()
}

// Genotype is a fully derived symbol sequence, ready to be interpreted.
type Genotype []Symbol
