package aleph

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"iter"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
)

// X-Server operation keywords.
// https://developers.exlibrisgroup.com/aleph/apis/aleph-x-services/
const (
	opPing    = "ping"
	opFind    = "find"
	opPresent = "present"
)

// XClient searches an Aleph base through the X-Server API.
type XClient struct {
	web      *webClient
	base     string
	pageSize int
	logger   *log.Logger
}

// NewXClient creates an X-Server client.
func NewXClient(cfg XConfig, logger *log.Logger) *XClient {
	if logger == nil {
		logger = log.Default()
	}
	cfg.applyDefaults()
	if cfg.PageSize == 0 {
		cfg.PageSize = defaultPageSize
	}

	return &XClient{
		web:      newWebClient(cfg.WebConfig, logger),
		base:     cfg.Base,
		pageSize: cfg.PageSize,
		logger:   logger,
	}
}

// IsAvailable reports whether the endpoint answers a ping request.
func (c *XClient) IsAvailable(ctx context.Context) bool {
	params := url.Values{}
	params.Set("op", opPing)
	_, err := c.web.get(ctx, params)
	return err == nil
}

// xSession is the sticky state of one logical search. The server is
// stateful per session: find issues the id, and every present response may
// rotate it. Keeping the session on a per-search value rather than on the
// client keeps concurrent searches from interleaving session ids.
type xSession struct {
	id        string
	setNumber string
	total     int
}

// find runs the search phase of a query and opens its session.
func (c *XClient) find(ctx context.Context, field, value string) (*xSession, error) {
	params := url.Values{}
	params.Set("op", opFind)
	params.Set("base", c.base)
	params.Set("code", field)
	params.Set("request", value)

	body, err := c.web.get(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("x-server find: %w", err)
	}

	// Failures surface as a missing session id; the body may then be an
	// XML error document or an HTML page, so parse errors are ignored
	// here and the message is dug out of whatever came back.
	var resp xFindResponse
	_ = xml.Unmarshal(body, &resp)

	if resp.SessionID == "" {
		msg := extractErrorText(body)
		if msg == "" {
			msg = "unexpected response"
		}
		return nil, fmt.Errorf("x-server find: %s", msg)
	}

	total, _ := strconv.Atoi(strings.TrimSpace(resp.NoRecords))
	c.logger.Debug("x-server find", "field", field, "set", resp.SetNumber, "records", total)

	return &xSession{
		id:        resp.SessionID,
		setNumber: resp.SetNumber,
		total:     total,
	}, nil
}

// fetchPage retrieves one window of system numbers for the session's result
// set. start and end are 1-based inclusive. The session id returned by the
// server replaces the sticky id for the next call.
func (c *XClient) fetchPage(ctx context.Context, s *xSession, start, end int) ([]string, error) {
	params := url.Values{}
	params.Set("op", opPresent)
	params.Set("set_number", s.setNumber)
	params.Set("set_entry", fmt.Sprintf("%d-%d", start, end))
	params.Set("session_id", s.id)

	body, err := c.web.get(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("x-server present %d-%d: %w", start, end, err)
	}

	var resp xPresentResponse
	if err := xml.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parse present response: %w", err)
	}
	s.id = resp.SessionID

	return resp.DocNumbers, nil
}

// FindSystemNumbers searches one field for a value and yields every matching
// system number in server order. The result set is fetched in page-size
// windows over [1, total]; the iterator suspends after each yielded number
// and never holds more than one window.
func (c *XClient) FindSystemNumbers(ctx context.Context, field, value string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		session, err := c.find(ctx, field, value)
		if err != nil {
			yield("", err)
			return
		}

		for start := 1; start <= session.total; start += c.pageSize {
			end := start + c.pageSize - 1
			if end > session.total {
				end = session.total
			}

			numbers, err := c.fetchPage(ctx, session, start, end)
			if err != nil {
				yield("", err)
				return
			}
			for _, n := range numbers {
				if !yield(n, nil) {
					return
				}
			}
		}
	}
}

// GetOneOrNoneSystemNumber returns the single matching system number, or ""
// when the search matches zero or more than one record. Callers that need
// to tell those two cases apart must use FindSystemNumbers.
func (c *XClient) GetOneOrNoneSystemNumber(ctx context.Context, field, value string) (string, error) {
	session, err := c.find(ctx, field, value)
	if err != nil {
		return "", err
	}
	if session.total != 1 {
		return "", nil
	}

	numbers, err := c.fetchPage(ctx, session, 1, 1)
	if err != nil {
		return "", err
	}
	if len(numbers) == 0 {
		return "", nil
	}
	return numbers[0], nil
}

// XML structures for X-Server parsing.

type xFindResponse struct {
	SessionID string `xml:"session-id"`
	SetNumber string `xml:"set_number"`
	NoRecords string `xml:"no_records"`
}

type xPresentResponse struct {
	SessionID  string   `xml:"session-id"`
	DocNumbers []string `xml:"record>doc_number"`
}

// extractErrorText pulls a human-readable message out of a failed X-Server
// response, which may be an XML error document or an HTML page with the
// message in an <h1>.
func extractErrorText(body []byte) string {
	dec := xml.NewDecoder(bytes.NewReader(body))
	dec.Strict = false
	for {
		tok, err := dec.Token()
		if err != nil {
			return ""
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch strings.ToLower(se.Name.Local) {
		case "error", "h1":
			var text string
			if err := dec.DecodeElement(&text, &se); err != nil {
				return ""
			}
			return strings.TrimSpace(text)
		}
	}
}
