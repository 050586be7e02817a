package tyrant

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Map is the dictionary-like façade over a Client (spec §4.5): a thin
// mapping of get/set/delete/iterate operations onto the Command Layer,
// handling table records and optional list-valued keys via a configured
// separator. Grounded on tx_tokyo.py's TTDict/Dict wrapper.
type Map struct {
	client    *Client
	separator string
	literal   bool
}

// NewMap wraps client in a Map façade using its Config's Separator/Literal
// settings.
func (c *Client) NewMap() *Map {
	return &Map{client: c, separator: c.config.Separator, literal: c.config.Literal}
}

// Get returns key's value, or KeyMissing if absent. Unless the façade's
// Literal flag is set, the value is UTF-8-validated and a DecodeError is
// raised on malformed bytes; Literal suppresses that check and returns the
// raw bytes verbatim (spec §3 Invariants, §4.6), mirroring the source's
// get_str/get_unicode split.
func (m *Map) Get(key string) (string, error) {
	raw, err := m.client.Get([]byte(key))
	if _, ok := err.(*ProtocolError); ok {
		return "", &KeyMissing{Key: key}
	}
	if err != nil {
		return "", err
	}
	if !m.literal && !utf8.Valid(raw) {
		return "", &DecodeError{Reason: "invalid UTF-8 in GET value"}
	}
	return string(raw), nil
}

// GetList returns key's value split on the configured separator, failing
// with SeparatorRequired if none is configured.
func (m *Map) GetList(key string) ([]string, error) {
	if m.separator == "" {
		return nil, &SeparatorRequired{}
	}
	raw, err := m.Get(key)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}
	return strings.Split(raw, m.separator), nil
}

// GetTable returns key's value parsed as a table record (column -> value),
// or KeyMissing if the key does not exist — either because GET itself
// failed, or because the table db encodes "no record" as an empty leading
// NUL-separated token (spec §6).
func (m *Map) GetTable(key string) (map[string]string, error) {
	raw, err := m.client.Get([]byte(key))
	if _, ok := err.(*ProtocolError); ok {
		return nil, &KeyMissing{Key: key}
	}
	if err != nil {
		return nil, err
	}
	row, err := parseTableRecord(raw)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, &KeyMissing{Key: key}
	}
	return row, nil
}

// Set stores value under key. value may be a string/[]byte (plain PUT), a
// map[string]string (table record, via MISC putlist), or a []string
// (joined with the configured separator; SeparatorRequired if none is
// set) — spec §4.5's value-coercion rule.
func (m *Map) Set(key string, value any) error {
	switch v := value.(type) {
	case string:
		return m.client.Put([]byte(key), []byte(v))
	case []byte:
		return m.client.Put([]byte(key), v)
	case map[string]string:
		args := make([]string, 0, 1+2*len(v))
		args = append(args, key)
		for col, val := range v {
			args = append(args, col, val)
		}
		_, err := m.client.Misc("putlist", args, 0)
		return err
	case []string:
		if m.separator == "" {
			return &SeparatorRequired{}
		}
		return m.client.Put([]byte(key), []byte(strings.Join(v, m.separator)))
	default:
		return fmt.Errorf("tyrant: unsupported value type %T", value)
	}
}

// Delete removes key, returning KeyMissing if it does not exist.
func (m *Map) Delete(key string) error {
	return m.client.Out([]byte(key))
}

// Contains reports whether key exists.
func (m *Map) Contains(key string) (bool, error) {
	_, err := m.client.Vsiz([]byte(key))
	if _, ok := err.(*ProtocolError); ok {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Len reports the number of records in the database.
func (m *Map) Len() (uint64, error) { return m.client.Rnum() }

// Clear removes every record.
func (m *Map) Clear() error { return m.client.Vanish() }

// SyncDB flushes server-side buffers.
func (m *Map) SyncDB() error { return m.client.Sync() }

// IterateKeys returns a lazy, single-shot, finite key sequence: call next
// repeatedly until it returns IterEnd (spec §4.5).
func (m *Map) IterateKeys() (next func() ([]byte, error), err error) {
	if err := m.client.IterInit(); err != nil {
		return nil, err
	}
	return m.client.IterNext, nil
}

// KeysWithPrefix returns up to max keys sharing prefix.
func (m *Map) KeysWithPrefix(prefix string, max uint32) ([][]byte, error) {
	return m.client.FwmKeys([]byte(prefix), max)
}

// MultiGet fetches several keys at once.
func (m *Map) MultiGet(keys []string) (map[string]string, error) {
	raw := make([][]byte, len(keys))
	for i, k := range keys {
		raw[i] = []byte(k)
	}
	pairs, err := m.client.MGet(raw)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(pairs))
	for _, kv := range pairs {
		out[string(kv.Key)] = string(kv.Value)
	}
	return out, nil
}

// MultiSet stores every (key, value) pair in values with one PUT per pair,
// in map iteration order, stopping at the first PUT that fails; pairs
// stored before that failure stay stored. It takes a single map and does
// not recurse (source bug (d)); the pairs are not batched into one
// multi-set request.
func (m *Map) MultiSet(values map[string]string) error {
	for key, value := range values {
		if err := m.client.Put([]byte(key), []byte(value)); err != nil {
			return err
		}
	}
	return nil
}

// MultiDelete removes every key in keys.
func (m *Map) MultiDelete(keys []string) error {
	for _, key := range keys {
		if err := m.client.Out([]byte(key)); err != nil {
			return err
		}
	}
	return nil
}

// GetInt returns key's value reinterpreted as a little-endian 4-byte
// counter by adding zero (ADDINT with num=0 reads without mutating).
func (m *Map) GetInt(key string) (int32, error) {
	return m.client.AddInt([]byte(key), 0)
}

// GetDouble returns key's fixed-point double counter by adding zero.
func (m *Map) GetDouble(key string) (float64, error) {
	return m.client.AddDouble([]byte(key), 0)
}

// Concat appends value to key's existing value, truncating to width bytes
// from the left when width > 0.
func (m *Map) Concat(key, value string, width uint32) error {
	if width > 0 {
		return m.client.PutShl([]byte(key), []byte(value), width)
	}
	return m.client.PutCat([]byte(key), []byte(value))
}

// CallExtension invokes a server-side script extension.
func (m *Map) CallExtension(fn, key, value string, recordLock, globalLock bool) (string, error) {
	var opts uint32
	if recordLock {
		opts |= LockRecord
	}
	if globalLock {
		opts |= LockGlobal
	}
	return m.client.Ext(fn, opts, []byte(key), []byte(value))
}

// Stats parses the server's status text blob ("key\tvalue" lines) into a
// string map (spec §6).
func (m *Map) Stats() (map[string]string, error) {
	text, err := m.client.Stat()
	if err != nil {
		return nil, err
	}
	out := make(map[string]string)
	for _, line := range strings.Split(text, "\n") {
		if line == "" {
			continue
		}
		kv := strings.SplitN(line, "\t", 2)
		if len(kv) == 2 {
			out[kv[0]] = kv[1]
		}
	}
	return out, nil
}

// Query returns a new Query bound to this Map's client.
func (m *Map) Query() *Query { return m.client.NewQuery() }
