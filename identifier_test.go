package aleph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentifierPatternMatch(t *testing.T) {
	pattern, err := newIdentifierPattern("oai:example.org:{base}-{doc_number}", "MZK01", `\d{9}`)
	require.NoError(t, err)

	base, systemNumber, ok := pattern.Match("oai:example.org:MZK01-000960080")
	assert.True(t, ok)
	assert.Equal(t, "MZK01", base)
	assert.Equal(t, "000960080", systemNumber)
}

func TestIdentifierPatternNoMatch(t *testing.T) {
	pattern, err := newIdentifierPattern("oai:example.org:{base}-{doc_number}", "MZK01", `\d{9}`)
	require.NoError(t, err)

	cases := []string{
		"oai:example.org:MZK02-000960080", // wrong base
		"oai:example.org:MZK01-12345",     // system number too short
		"oai:example.org:MZK01-0009600801",
		"oai:other.org:MZK01-000960080",
		"MZK01-000960080",
		"",
	}
	for _, id := range cases {
		_, _, ok := pattern.Match(id)
		assert.False(t, ok, "expected no match for %q", id)
	}
}

func TestIdentifierPatternEscapesLiterals(t *testing.T) {
	pattern, err := newIdentifierPattern("oai:example.org:{base}-{doc_number}", "MZK01", `\d{9}`)
	require.NoError(t, err)

	// The template dot is a literal, not a wildcard.
	_, _, ok := pattern.Match("oai:exampleXorg:MZK01-000960080")
	assert.False(t, ok)
}

func TestIdentifierPatternRender(t *testing.T) {
	pattern, err := newIdentifierPattern("oai:example.org:{base}-{doc_number}", "MZK01", `\d{9}`)
	require.NoError(t, err)

	assert.Equal(t, "oai:example.org:MZK01-000960080", pattern.Render("000960080"))
}

func TestIdentifierPatternRoundTrip(t *testing.T) {
	pattern, err := newIdentifierPattern("urn:{base}/{doc_number}/end", "KKL50", `[0-9a-f]{6}`)
	require.NoError(t, err)

	base, systemNumber, ok := pattern.Match(pattern.Render("0a1b2c"))
	assert.True(t, ok)
	assert.Equal(t, "KKL50", base)
	assert.Equal(t, "0a1b2c", systemNumber)
}

func TestIdentifierPatternInvalidTemplate(t *testing.T) {
	_, err := newIdentifierPattern("oai:example.org:{base}", "MZK01", `\d{9}`)
	assert.Error(t, err)

	_, err = newIdentifierPattern("oai:example.org:{doc_number}", "MZK01", `\d{9}`)
	assert.Error(t, err)

	_, err = newIdentifierPattern("oai:example.org:{base}-{doc_number}", "MZK01", "")
	assert.Error(t, err)

	_, err = newIdentifierPattern("oai:example.org:{base}-{doc_number}", "MZK01", `(`)
	assert.Error(t, err)
}
