package aleph

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// Client bundles the configured Aleph access protocols. Fields for services
// left out of the config are nil.
type Client struct {
	OAI   *OAIClient
	X     *XClient
	Z3950 *Z3950Client
}

// Options carries optional collaborators for NewClient.
type Options struct {
	// Logger receives harvest diagnostics. Defaults to log.Default().
	Logger *log.Logger

	// Z3950Dialer opens native Z39.50 sessions. Required when the config
	// enables the Z39.50 service.
	Z3950Dialer Z3950Dialer
}

// NewClient builds a client for every service the config enables.
func NewClient(cfg Config, opts *Options) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if opts == nil {
		opts = &Options{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	var client Client
	var err error

	if cfg.OAI != nil {
		client.OAI, err = NewOAIClient(*cfg.OAI, logger)
		if err != nil {
			return nil, fmt.Errorf("oai: %w", err)
		}
	}
	if cfg.X != nil {
		client.X = NewXClient(*cfg.X, logger)
	}
	if cfg.Z3950 != nil {
		client.Z3950, err = NewZ3950Client(*cfg.Z3950, opts.Z3950Dialer)
		if err != nil {
			return nil, err
		}
	}

	return &client, nil
}
