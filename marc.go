package aleph

import (
	"encoding/xml"
	"fmt"
)

// MarcRecord is a MARC21 bibliographic record in its MARCXML (slim) form.
type MarcRecord struct {
	XMLName       xml.Name       `xml:"record"`
	Leader        string         `xml:"leader"`
	ControlFields []ControlField `xml:"controlfield"`
	DataFields    []DataField    `xml:"datafield"`
}

// ControlField is a fixed MARC field (tags 001-009).
type ControlField struct {
	Tag   string `xml:"tag,attr"`
	Value string `xml:",chardata"`
}

// DataField is a variable MARC field with two indicators and subfields.
type DataField struct {
	Tag       string     `xml:"tag,attr"`
	Ind1      string     `xml:"ind1,attr"`
	Ind2      string     `xml:"ind2,attr"`
	Subfields []Subfield `xml:"subfield"`
}

// Subfield is one coded value inside a data field.
type Subfield struct {
	Code  string `xml:"code,attr"`
	Value string `xml:",chardata"`
}

// ParseMarcXML decodes one MARCXML record fragment. It fails on malformed
// XML, on a root element other than <record>, and on a record carrying no
// fields at all.
func ParseMarcXML(data []byte) (*MarcRecord, error) {
	var rec MarcRecord
	if err := xml.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse marc record: %w", err)
	}
	if rec.Leader == "" && len(rec.ControlFields) == 0 && len(rec.DataFields) == 0 {
		return nil, fmt.Errorf("marc record has no fields")
	}
	return &rec, nil
}

// ControlNumber returns the record's control number (tag 001), or "".
func (r *MarcRecord) ControlNumber() string {
	for _, f := range r.ControlFields {
		if f.Tag == "001" {
			return f.Value
		}
	}
	return ""
}

// Subfield returns the first value for the given data field tag and subfield
// code, or "".
func (r *MarcRecord) Subfield(tag, code string) string {
	for _, f := range r.DataFields {
		if f.Tag != tag {
			continue
		}
		for _, s := range f.Subfields {
			if s.Code == code {
				return s.Value
			}
		}
	}
	return ""
}
