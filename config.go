package aleph

import "errors"

// Defaults applied by the client constructors.
const (
	defaultTimeout      = 30 // seconds
	defaultTotalRetry   = 5
	defaultRetryBackoff = 1 // seconds
	defaultPageSize     = 10
)

// WebConfig holds the HTTP settings shared by the OAI and X-Server clients.
type WebConfig struct {
	// Host is the server base URL, e.g. "https://aleph.mzk.cz".
	Host string `yaml:"host"`

	// Endpoint is the service path on the host, e.g. "OAI" or "X".
	Endpoint string `yaml:"endpoint"`

	// Timeout is the per-request timeout in seconds (default 30).
	Timeout int `yaml:"timeout"`

	// TotalRetry is how many times a server-error response is retried
	// before giving up (default 5).
	TotalRetry int `yaml:"total_retry"`

	// RetryBackoff is the base backoff in seconds, doubled per attempt
	// (default 1).
	RetryBackoff int `yaml:"retry_backoff"`
}

func (c *WebConfig) applyDefaults() {
	if c.Timeout == 0 {
		c.Timeout = defaultTimeout
	}
	if c.TotalRetry == 0 {
		c.TotalRetry = defaultTotalRetry
	}
	if c.RetryBackoff == 0 {
		c.RetryBackoff = defaultRetryBackoff
	}
}

// OAIConfig configures the OAI-PMH harvesting client.
type OAIConfig struct {
	WebConfig `yaml:",inline"`

	// Base is the Aleph base code, e.g. "MZK01".
	Base string `yaml:"base"`

	// Sets are the OAI set names harvested by ListRecords, in order.
	Sets []string `yaml:"sets"`

	// IdentifierTemplate is the harvest identifier layout with {base} and
	// {doc_number} placeholders, e.g. "oai:aleph.mzk.cz:{base}-{doc_number}".
	IdentifierTemplate string `yaml:"identifier_template"`

	// SystemNumberPattern is a regular expression fragment matching one
	// system number, e.g. `\d{9}`.
	SystemNumberPattern string `yaml:"system_number_pattern"`
}

// XConfig configures the X-Server search client.
type XConfig struct {
	WebConfig `yaml:",inline"`

	// Base is the Aleph base code searched by find requests.
	Base string `yaml:"base"`

	// PageSize is the present-window size used when paging through a
	// result set (default 10).
	PageSize int `yaml:"page_size"`
}

// Z3950Config configures the Z39.50 client.
type Z3950Config struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	Base string `yaml:"base"`
}

// Config selects and configures the Aleph services a Client exposes.
// Services left nil are not constructed.
type Config struct {
	// Base is the default Aleph base code for the whole client.
	Base string `yaml:"base"`

	OAI   *OAIConfig   `yaml:"oai"`
	X     *XConfig     `yaml:"x"`
	Z3950 *Z3950Config `yaml:"z3950"`
}

// Validate checks that at least one service is configured.
func (c *Config) Validate() error {
	if c.OAI == nil && c.X == nil && c.Z3950 == nil {
		return errors.New("at least one of the Aleph services must be configured")
	}
	return nil
}
