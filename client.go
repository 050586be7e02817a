package tyrant

// Client is the entry point: a Transport bound to a Config, offering the
// full command set as methods (commands.go). Grounded on the teacher's
// top-level server wiring in server.go, with listen replaced by dial.
type Client struct {
	t      *Transport
	config *Config
	stats  *Stats
}

// Dial opens a connection using config (DefaultConfig() if nil) and returns
// a ready-to-use Client.
func Dial(config *Config) (*Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	stats := NewStats()
	t, err := DialTransport(config.Addr(), config.DialTimeout, stats)
	if err != nil {
		return nil, err
	}

	return &Client{t: t, config: config, stats: stats}, nil
}

// newClientFromTransport wires an already-connected Transport, used by
// tests against net.Pipe.
func newClientFromTransport(t *Transport, config *Config) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	return &Client{t: t, config: config, stats: t.stats}
}

// Close shuts down the underlying Transport.
func (c *Client) Close() error { return c.t.Close() }

// Stats returns a snapshot of the client's counters.
func (c *Client) Stats() Snapshot { return c.stats.Snapshot() }

// Config returns the Client's configuration.
func (c *Client) Config() *Config { return c.config }
