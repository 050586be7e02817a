package tyrant

import "math"

// This file composes wire.go's pack, transport.go's send and decode.go's
// frameReader into one method per protocol opcode (spec §4.3). Grounded on
// tx_tokyo.py's method bodies 1:1 (one deferred per opcode, frame layout and
// reply layout matching the table in the spec), translated from Twisted
// Deferreds to Go's blocking send/decode pair since the Transport already
// makes every command concurrency-safe via its own FIFO.

// Put stores value under key, overwriting any existing record.
func (c *Client) Put(key, value []byte) error {
	_, err := c.t.send(opPut, []Arg{u32(uint32(len(key))), u32(uint32(len(value))), bytesArg(key), bytesArg(value)}, statusOnly)
	return err
}

// PutKeep stores value under key only if key does not already exist;
// returns KeyExists otherwise.
func (c *Client) PutKeep(key, value []byte) error {
	_, err := c.t.send(opPutKeep, []Arg{u32(uint32(len(key))), u32(uint32(len(value))), bytesArg(key), bytesArg(value)}, statusOnly)
	if _, ok := err.(*ProtocolError); ok {
		return &KeyExists{Key: string(key)}
	}
	return err
}

// PutCat appends value to the end of key's existing value (or creates it).
func (c *Client) PutCat(key, value []byte) error {
	_, err := c.t.send(opPutCat, []Arg{u32(uint32(len(key))), u32(uint32(len(value))), bytesArg(key), bytesArg(value)}, statusOnly)
	return err
}

// PutShl appends value to key then truncates the result to width bytes
// from the left.
func (c *Client) PutShl(key, value []byte, width uint32) error {
	_, err := c.t.send(opPutShl, []Arg{u32(uint32(len(key))), u32(uint32(len(value))), u32(width), bytesArg(key), bytesArg(value)}, statusOnly)
	return err
}

// PutNr stores value under key and does not wait for (or expect) a reply.
func (c *Client) PutNr(key, value []byte) error {
	_, err := c.t.send(opPutNr, []Arg{u32(uint32(len(key))), u32(uint32(len(value))), bytesArg(key), bytesArg(value)}, nil)
	return err
}

// Out deletes key; returns KeyMissing if it does not exist.
func (c *Client) Out(key []byte) error {
	_, err := c.t.send(opOut, []Arg{u32(uint32(len(key))), bytesArg(key)}, statusOnly)
	if _, ok := err.(*ProtocolError); ok {
		return &KeyMissing{Key: string(key)}
	}
	return err
}

// Get retrieves key's raw value. A non-existent key (or any other
// server-side failure) surfaces as *ProtocolError with the server's status
// code; only the Dictionary façade narrows that to KeyMissing, since GET's
// status byte is ambiguous between "no such key" and other failures (spec
// §7).
func (c *Client) Get(key []byte) ([]byte, error) {
	val, err := c.t.send(opGet, []Arg{u32(uint32(len(key))), bytesArg(key)}, decodeGet)
	if err != nil {
		return nil, err
	}
	return val.([]byte), nil
}

func decodeGet(fr *frameReader) (any, error) {
	return fr.readLenBytes()
}

// KV is one (key, value) pair returned by MGet.
type KV struct {
	Key, Value []byte
}

// MGet retrieves several keys in one round trip. Per the known source bug
// (a), each key is individually length-prefixed via the list encoding. The
// reply is always decoded as a count followed by that many key/value pairs
// (no legacy bare-list form), and every pair it carries is returned; the
// count is not compared with len(keys), so a reply with fewer pairs than
// requested keys is accepted as it is.
func (c *Client) MGet(keys [][]byte) ([]KV, error) {
	items := make([]string, len(keys))
	for i, k := range keys {
		items[i] = string(k)
	}
	val, err := c.t.send(opMGet, []Arg{u32(uint32(len(keys))), list(items)}, decodeMGet)
	if err != nil {
		return nil, err
	}
	return val.([]KV), nil
}

func decodeMGet(fr *frameReader) (any, error) {
	n, err := fr.readU32()
	if err != nil {
		return nil, err
	}
	out := make([]KV, n)
	for i := range out {
		k, v, err := fr.readStrPair()
		if err != nil {
			return nil, err
		}
		out[i] = KV{Key: k, Value: v}
	}
	return out, nil
}

// Vsiz reports the byte size of key's value. Like Get, a non-existent key
// surfaces as *ProtocolError; the Dictionary façade is where that becomes
// KeyMissing (spec §7).
func (c *Client) Vsiz(key []byte) (uint32, error) {
	val, err := c.t.send(opVsiz, []Arg{u32(uint32(len(key))), bytesArg(key)}, decodeU32)
	if err != nil {
		return 0, err
	}
	return val.(uint32), nil
}

func decodeU32(fr *frameReader) (any, error) { return fr.readU32() }

// IterInit resets the server-side key iterator to the first record.
func (c *Client) IterInit() error {
	_, err := c.t.send(opIterInit, nil, statusOnly)
	return err
}

// IterNext returns the next key in iteration order, or IterEnd once the
// server reports a non-zero status (spec §4.5, §7).
func (c *Client) IterNext() ([]byte, error) {
	val, err := c.t.send(opIterNext, nil, decodeGet)
	if _, ok := err.(*ProtocolError); ok {
		return nil, IterEnd
	}
	if err != nil {
		return nil, err
	}
	return val.([]byte), nil
}

// FwmKeys returns up to max keys sharing prefix.
func (c *Client) FwmKeys(prefix []byte, max uint32) ([][]byte, error) {
	val, err := c.t.send(opFwmKeys, []Arg{u32(uint32(len(prefix))), u32(max), bytesArg(prefix)}, decodeKeyList)
	if err != nil {
		return nil, err
	}
	return val.([][]byte), nil
}

func decodeKeyList(fr *frameReader) (any, error) {
	n, err := fr.readU32()
	if err != nil {
		return nil, err
	}
	out := make([][]byte, n)
	for i := range out {
		s, err := fr.readLenStr()
		if err != nil {
			return nil, err
		}
		out[i] = []byte(s)
	}
	return out, nil
}

// AddInt atomically adds num to key's integer counter and returns the sum.
func (c *Client) AddInt(key []byte, num int32) (int32, error) {
	val, err := c.t.send(opAddInt, []Arg{u32(uint32(len(key))), u32(uint32(num)), bytesArg(key)}, decodeU32)
	if err != nil {
		return 0, err
	}
	return int32(val.(uint32)), nil
}

// AddDouble atomically adds num to key's fixed-point double counter and
// returns the sum. intPart/fracPart follow the spec's numeric-coding rule:
// intPart = trunc(num), fracPart = round((num - intPart) * 1e12), both
// re-encoded as unsigned u64 so negative values wrap the same way the
// server does.
func (c *Client) AddDouble(key []byte, num float64) (float64, error) {
	intPart, fracPart := splitDouble(num)
	val, err := c.t.send(opAddDouble, []Arg{u32(uint32(len(key))), u64(intPart), u64(fracPart), bytesArg(key)}, decodeDouble)
	if err != nil {
		return 0, err
	}
	return val.(float64), nil
}

func splitDouble(num float64) (intPart, fracPart uint64) {
	ip := math.Trunc(num)
	fp := math.Round((num - ip) * 1e12)
	return uint64(int64(ip)), uint64(int64(fp))
}

func decodeDouble(fr *frameReader) (any, error) { return fr.readDouble() }

// Ext invokes a server-side script extension named fn on (key,value) and
// returns its string result. opts is an OR of LockRecord/LockGlobal.
func (c *Client) Ext(fn string, opts uint32, key, value []byte) (string, error) {
	fnb := []byte(fn)
	val, err := c.t.send(opExt, []Arg{
		u32(uint32(len(fnb))), u32(opts), u32(uint32(len(key))), u32(uint32(len(value))),
		bytesArg(fnb), bytesArg(key), bytesArg(value),
	}, decodeStr)
	if err != nil {
		return "", err
	}
	return val.(string), nil
}

func decodeStr(fr *frameReader) (any, error) { return fr.readLenStr() }

// Sync flushes server-side buffers to the backing store.
func (c *Client) Sync() error {
	_, err := c.t.send(opSync, nil, statusOnly)
	return err
}

// Vanish removes every record from the database.
func (c *Client) Vanish() error {
	_, err := c.t.send(opVanish, nil, statusOnly)
	return err
}

// Copy duplicates the database file to path.
func (c *Client) Copy(path string) error {
	_, err := c.t.send(opCopy, []Arg{u32(uint32(len(path))), text(path)}, statusOnly)
	return err
}

// Restore replays the update log found at path up to timestamp ts (unix
// microseconds), with opts an OR of option flags (e.g. NoUpdateLog).
func (c *Client) Restore(path string, ts uint64, opts uint32) error {
	pb := []byte(path)
	_, err := c.t.send(opRestore, []Arg{u32(uint32(len(pb))), u64(ts), u32(opts), bytesArg(pb)}, statusOnly)
	return err
}

// SetMst designates host:port as this server's new master for replication.
func (c *Client) SetMst(host string, port uint32) error {
	hb := []byte(host)
	_, err := c.t.send(opSetMst, []Arg{u32(uint32(len(hb))), u32(port), bytesArg(hb)}, statusOnly)
	return err
}

// Rnum reports the number of records in the database.
func (c *Client) Rnum() (uint64, error) {
	val, err := c.t.send(opRnum, nil, decodeU64)
	if err != nil {
		return 0, err
	}
	return val.(uint64), nil
}

// Size reports the database's file size in bytes.
func (c *Client) Size() (uint64, error) {
	val, err := c.t.send(opSize, nil, decodeU64)
	if err != nil {
		return 0, err
	}
	return val.(uint64), nil
}

func decodeU64(fr *frameReader) (any, error) { return fr.readU64() }

// Stat returns the server's status text blob (spec §6: "key\tvalue" lines
// separated by "\n").
func (c *Client) Stat() (string, error) {
	val, err := c.t.send(opStat, nil, decodeStr)
	if err != nil {
		return "", err
	}
	return val.(string), nil
}

// Misc invokes a miscellaneous function by name with positional string
// arguments, returning its reply list. This is the primitive the Table
// Query Builder compiles "search" calls onto.
func (c *Client) Misc(fn string, args []string, opts uint32) ([]string, error) {
	fnb := []byte(fn)
	val, err := c.t.send(opMisc, []Arg{u32(uint32(len(fnb))), u32(opts), u32(uint32(len(args))), bytesArg(fnb), list(args)}, decodeStrList)
	if err != nil {
		return nil, err
	}
	return val.([]string), nil
}

func decodeStrList(fr *frameReader) (any, error) {
	n, err := fr.readU32()
	if err != nil {
		return nil, err
	}
	return fr.readStrList(int(n))
}

// statusOnly is the decode callback for commands whose only reply content
// is the status byte the Transport already consumed.
func statusOnly(fr *frameReader) (any, error) { return nil, nil }
