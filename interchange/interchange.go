// Package interchange reads derived genotypes and writes built phenotypes
package interchange

import "github.com/aabizri/robotsyr"

// Table is a symbol table that can grow while a genotype is imported.
type Table interface {
	robotsyr.SymbolTable
	Intern(token string) (robotsyr.SymbolID, error)
}

// Format is a decoded genotype document.
type Format interface {
	Import(table Table, env robotsyr.Environment) (robotsyr.Genotype, error)
}
