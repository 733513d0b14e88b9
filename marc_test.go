package aleph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleMarcXML = `<record xmlns="http://www.loc.gov/MARC21/slim">
  <leader>00000nam a2200000 a 4500</leader>
  <controlfield tag="001">nkc20091970515</controlfield>
  <controlfield tag="003">CZ-BrMZK</controlfield>
  <datafield tag="245" ind1="1" ind2="0">
    <subfield code="a">Babicka :</subfield>
    <subfield code="b">obrazy venkovskeho zivota</subfield>
  </datafield>
  <datafield tag="100" ind1="1" ind2=" ">
    <subfield code="a">Nemcova, Bozena,</subfield>
  </datafield>
</record>`

func TestParseMarcXML(t *testing.T) {
	rec, err := ParseMarcXML([]byte(sampleMarcXML))
	require.NoError(t, err)

	assert.Equal(t, "nkc20091970515", rec.ControlNumber())
	assert.Len(t, rec.ControlFields, 2)
	assert.Len(t, rec.DataFields, 2)
	assert.Equal(t, "Babicka :", rec.Subfield("245", "a"))
	assert.Equal(t, "obrazy venkovskeho zivota", rec.Subfield("245", "b"))
	assert.Equal(t, "", rec.Subfield("245", "c"))
	assert.Equal(t, "", rec.Subfield("999", "a"))
}

func TestParseMarcXMLMalformed(t *testing.T) {
	_, err := ParseMarcXML([]byte("<record><leader>unterminated"))
	assert.Error(t, err)
}

func TestParseMarcXMLWrongRoot(t *testing.T) {
	_, err := ParseMarcXML([]byte("<somethingelse/>"))
	assert.Error(t, err)
}

func TestParseMarcXMLEmpty(t *testing.T) {
	_, err := ParseMarcXML(nil)
	assert.Error(t, err)

	_, err = ParseMarcXML([]byte("<record/>"))
	assert.Error(t, err, "record with no fields at all is a format error")
}
