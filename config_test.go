package tyrant

import "testing"

func TestDefaultConfigValidates(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v, want nil", err)
	}
}

func TestValidateRejectsOutOfRangePort(t *testing.T) {
	cases := []int{0, -1, 65536, 100000}
	for _, port := range cases {
		c := DefaultConfig()
		c.Port = port
		if err := c.Validate(); err == nil {
			t.Errorf("Validate() with port %d = nil, want error", port)
		}
	}
}

func TestValidateRejectsUnknownLogLevel(t *testing.T) {
	c := DefaultConfig()
	c.LogLevel = "verbose"
	if err := c.Validate(); err == nil {
		t.Fatal("Validate() with bad log_level = nil, want error")
	}
}

func TestConfigAddr(t *testing.T) {
	c := &Config{Host: "db.internal", Port: 1978}
	if got, want := c.Addr(), "db.internal:1978"; got != want {
		t.Fatalf("Addr() = %q, want %q", got, want)
	}
}
