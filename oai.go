package aleph

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"iter"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// OAI-PMH protocol verbs.
// https://www.openarchives.org/OAI/openarchivesprotocol.html#ProtocolSyntax
const (
	verbIdentify    = "Identify"
	verbGetRecord   = "GetRecord"
	verbListRecords = "ListRecords"
)

const marcMetadataPrefix = "marc21"

// ListRecordResult is one classified record from a harvest. Record is
// non-nil exactly when Status is StatusActive. Base and SystemNumber are
// recovered from the record's identifier via the configured template.
type ListRecordResult struct {
	Base         string
	SystemNumber string
	Status       RecordStatus
	Record       *MarcRecord
}

// OAIClient harvests bibliographic records from an Aleph OAI-PMH endpoint.
type OAIClient struct {
	web     *webClient
	sets    []string
	pattern *identifierPattern
	logger  *log.Logger
}

// NewOAIClient creates an OAI-PMH client. The identifier template and
// system-number pattern are compiled once here; a template the server's
// identifiers do not match later aborts a harvest, since it means the
// configuration is wrong.
func NewOAIClient(cfg OAIConfig, logger *log.Logger) (*OAIClient, error) {
	if logger == nil {
		logger = log.Default()
	}
	cfg.applyDefaults()

	pattern, err := newIdentifierPattern(cfg.IdentifierTemplate, cfg.Base, cfg.SystemNumberPattern)
	if err != nil {
		return nil, err
	}

	return &OAIClient{
		web:     newWebClient(cfg.WebConfig, logger),
		sets:    cfg.Sets,
		pattern: pattern,
		logger:  logger,
	}, nil
}

// IsAvailable reports whether the endpoint answers an Identify request.
func (c *OAIClient) IsAvailable(ctx context.Context) bool {
	params := url.Values{}
	params.Set("verb", verbIdentify)
	_, err := c.web.get(ctx, params)
	return err == nil
}

// GetRecord fetches a single record by document number. The full harvest
// identifier is built from the configured template. A server-reported error
// document fails the call; a successful response carrying no MARC body (a
// tombstone) returns (nil, nil).
func (c *OAIClient) GetRecord(ctx context.Context, docNumber string) (*MarcRecord, error) {
	params := url.Values{}
	params.Set("verb", verbGetRecord)
	params.Set("metadataPrefix", marcMetadataPrefix)
	params.Set("identifier", c.pattern.Render(docNumber))

	body, err := c.web.get(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("get record %s: %w", docNumber, err)
	}

	var resp oaiGetRecordResponse
	if err := xml.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parse oai response: %w", err)
	}
	if resp.Error.Code != "" || resp.Error.Value != "" {
		return nil, fmt.Errorf("oai error %s: %s", resp.Error.Code, resp.Error.Value)
	}

	raw := resp.Record.metadataBytes()
	if len(raw) == 0 {
		return nil, nil
	}
	rec, err := ParseMarcXML(raw)
	if err != nil {
		return nil, fmt.Errorf("record %s: %w", docNumber, err)
	}
	return rec, nil
}

// ListRecords harvests every configured set over the given date window,
// yielding classified records one at a time. Sets are harvested
// sequentially in their configured order; within a set, pages are requested
// on demand via resumption tokens, so at most one page is held in memory
// and the iterator suspends after every record.
//
// A fatal error (transport failure, server error document, missing header
// or identifier, identifier not matching the template) is yielded in-band
// as the final element, after every record already produced from the
// current page. Records yielded before the error remain valid; re-invoking
// with an adjusted window resumes the harvest.
func (c *OAIClient) ListRecords(ctx context.Context, from, until time.Time) iter.Seq2[ListRecordResult, error] {
	return func(yield func(ListRecordResult, error) bool) {
		for _, set := range c.sets {
			if !c.listSet(ctx, set, from, until, yield) {
				return
			}
		}
	}
}

// listSet runs one set's pagination loop. It returns true when the set is
// exhausted and the next set may start, false when the consumer stopped or
// a fatal error was yielded.
func (c *OAIClient) listSet(ctx context.Context, set string, from, until time.Time, yield func(ListRecordResult, error) bool) bool {
	params := url.Values{}
	params.Set("verb", verbListRecords)
	params.Set("metadataPrefix", marcMetadataPrefix)
	params.Set("set", set)
	if !from.IsZero() {
		params.Set("from", from.UTC().Format(time.RFC3339))
	}
	if !until.IsZero() {
		params.Set("until", until.UTC().Format(time.RFC3339))
	}

	for {
		body, err := c.web.get(ctx, params)
		if err != nil {
			yield(ListRecordResult{}, fmt.Errorf("list records for set %s: %w", set, err))
			return false
		}

		var page oaiListRecordsPage
		if err := xml.Unmarshal(body, &page); err != nil {
			yield(ListRecordResult{}, fmt.Errorf("parse page for set %s: %w", set, err))
			return false
		}
		if page.Error.Code != "" || page.Error.Value != "" {
			yield(ListRecordResult{}, fmt.Errorf("oai error %s: %s", page.Error.Code, page.Error.Value))
			return false
		}

		// An empty batch is a valid terminal state: the set or window
		// simply has no records.
		if len(page.Records) == 0 {
			c.logger.Info("no records in batch", "set", set)
			return true
		}

		for _, rec := range page.Records {
			res, err := c.classify(rec)
			if err != nil {
				yield(ListRecordResult{}, fmt.Errorf("set %s: %w", set, err))
				return false
			}
			if !yield(res, nil) {
				return false
			}
		}

		token := page.trimmedToken()
		if token == "" {
			return true
		}

		// The token is the sole continuation state; nothing from the
		// previous request carries over.
		params = url.Values{}
		params.Set("verb", verbListRecords)
		params.Set("resumptionToken", token)
	}
}

// classify applies the record lifecycle rules. A missing header or
// identifier, or an identifier the configured template does not match, is a
// structural protocol violation returned as an error, which aborts the
// harvest. A MARC body that fails to parse only marks that one record
// StatusFailed; the harvest continues.
func (c *OAIClient) classify(rec oaiRecord) (ListRecordResult, error) {
	if rec.Header == nil {
		return ListRecordResult{}, fmt.Errorf("record without header")
	}
	if rec.Header.Identifier == "" {
		return ListRecordResult{}, fmt.Errorf("record header without identifier")
	}

	base, systemNumber, ok := c.pattern.Match(rec.Header.Identifier)
	if !ok {
		return ListRecordResult{}, fmt.Errorf("identifier %q does not match configured template", rec.Header.Identifier)
	}

	res := ListRecordResult{Base: base, SystemNumber: systemNumber}

	if rec.Header.Status == "deleted" {
		res.Status = StatusDeleted
		return res, nil
	}

	raw := rec.metadataBytes()
	record, err := ParseMarcXML(raw)
	if err != nil {
		c.logger.Error("error processing record", "identifier", rec.Header.Identifier, "err", err)
		c.logger.Debug("record content", "metadata", string(raw))
		res.Status = StatusFailed
		return res, nil
	}

	res.Status = StatusActive
	res.Record = record
	return res, nil
}

// XML structures for OAI-PMH parsing.

type oaiError struct {
	Code  string `xml:"code,attr"`
	Value string `xml:",chardata"`
}

type oaiGetRecordResponse struct {
	XMLName xml.Name  `xml:"OAI-PMH"`
	Error   oaiError  `xml:"error"`
	Record  oaiRecord `xml:"GetRecord>record"`
}

type oaiListRecordsPage struct {
	XMLName         xml.Name    `xml:"OAI-PMH"`
	Error           oaiError    `xml:"error"`
	Records         []oaiRecord `xml:"ListRecords>record"`
	ResumptionToken string      `xml:"ListRecords>resumptionToken"`
}

func (p *oaiListRecordsPage) trimmedToken() string {
	return strings.TrimSpace(p.ResumptionToken)
}

// oaiRecord keeps the metadata payload as raw bytes so that one record's
// malformed body cannot fail the whole page; the MARC body is parsed per
// record in classify.
type oaiRecord struct {
	Header   *oaiHeader   `xml:"header"`
	Metadata *oaiMetadata `xml:"metadata"`
}

func (r *oaiRecord) metadataBytes() []byte {
	if r.Metadata == nil {
		return nil
	}
	return bytes.TrimSpace(r.Metadata.Raw)
}

type oaiHeader struct {
	Status     string   `xml:"status,attr"`
	Identifier string   `xml:"identifier"`
	Datestamp  string   `xml:"datestamp"`
	SetSpec    []string `xml:"setSpec"`
}

type oaiMetadata struct {
	Raw []byte `xml:",innerxml"`
}
