package aleph

import (
	"fmt"
	"regexp"
	"strings"
)

// Placeholders recognized in an identifier template.
const (
	placeholderBase      = "{base}"
	placeholderDocNumber = "{doc_number}"
)

// identifierPattern recovers the base and system number embedded in harvest
// identifiers built from a configured template. The template is treated
// literally except for the {base} and {doc_number} placeholders, so the
// template "oai:example.org:{base}-{doc_number}" with base "MZK01" and
// system-number pattern `\d{9}` compiles to
//
//	^oai:example\.org:(?P<base>MZK01)-(?P<system_number>\d{9})$
//
// Compilation happens once per client; matching is amortized per record.
type identifierPattern struct {
	template string
	base     string
	re       *regexp.Regexp
}

func newIdentifierPattern(template, base, systemNumberPattern string) (*identifierPattern, error) {
	if !strings.Contains(template, placeholderBase) || !strings.Contains(template, placeholderDocNumber) {
		return nil, fmt.Errorf("identifier template %q must contain %s and %s",
			template, placeholderBase, placeholderDocNumber)
	}
	if systemNumberPattern == "" {
		return nil, fmt.Errorf("system number pattern must not be empty")
	}

	expr := regexp.QuoteMeta(template)
	expr = strings.Replace(expr, regexp.QuoteMeta(placeholderBase),
		"(?P<base>"+regexp.QuoteMeta(base)+")", 1)
	expr = strings.Replace(expr, regexp.QuoteMeta(placeholderDocNumber),
		"(?P<system_number>"+systemNumberPattern+")", 1)

	re, err := regexp.Compile("^" + expr + "$")
	if err != nil {
		return nil, fmt.Errorf("compile identifier pattern: %w", err)
	}
	return &identifierPattern{template: template, base: base, re: re}, nil
}

// Match extracts (base, systemNumber) from a harvested identifier.
func (p *identifierPattern) Match(identifier string) (base, systemNumber string, ok bool) {
	m := p.re.FindStringSubmatch(identifier)
	if m == nil {
		return "", "", false
	}
	for i, name := range p.re.SubexpNames() {
		switch name {
		case "base":
			base = m[i]
		case "system_number":
			systemNumber = m[i]
		}
	}
	return base, systemNumber, true
}

// Render builds the concrete identifier for a document number.
func (p *identifierPattern) Render(docNumber string) string {
	s := strings.Replace(p.template, placeholderBase, p.base, 1)
	return strings.Replace(s, placeholderDocNumber, docNumber, 1)
}
