package vhdl

import (
	"regexp"
	"strings"
)

var basicIdentRe = regexp.MustCompile(`^[A-Za-z](_?[A-Za-z0-9])*$`)

// VHDL-2008 reserved words, including the PSL keywords.
var reserved = map[string]bool{}

func init() {
	for _, w := range strings.Fields(`
		abs access after alias all and architecture array assert assume
		assume_guarantee attribute begin block body buffer bus case component
		configuration constant context cover default disconnect downto else
		elsif end entity exit fairness file for force function generate generic
		group guarded if impure in inertial inout is label library linkage
		literal loop map mod nand new next nor not null of on open or others
		out package parameter port postponed procedure process property
		protected pure range record register reject release rem report
		restrict restrict_guarantee return rol ror select sequence severity
		shared signal sla sll sra srl strong subtype then to transport type
		unaffected units until use variable vmode vprop vunit wait when while
		with xnor xor`) {
		reserved[w] = true
	}
}

// IsReserved reports whether name is a VHDL reserved word. VHDL is
// case-insensitive.
func IsReserved(name string) bool {
	return reserved[strings.ToLower(name)]
}

// IsBasicIdentifier reports whether name can be written as-is.
func IsBasicIdentifier(name string) bool {
	return basicIdentRe.MatchString(name) && !IsReserved(name)
}

// Identifier renders a signal name. Names that are not basic identifiers,
// such as "data[3]" or "2x", become extended identifiers and stay single
// bit.
func Identifier(name string) string {
	if IsBasicIdentifier(name) {
		return name
	}
	return `\` + strings.ReplaceAll(name, `\`, `\\`) + `\`
}
