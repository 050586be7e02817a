package tyrant

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sourcegraph/conc"
)

// MaxResults is the default stop bound for an unbounded slice (spec §4.4).
const MaxResults = 1000

// Condition is one (column, op, expr) predicate. Grounded on tx_tokyo.py's
// Q/condition objects; op is one of the Cond* constants in opcodes.go.
type Condition struct {
	Column string
	Op     uint32
	Expr   string
}

// Query accumulates filter predicates and ordering against a Client,
// lazily executing misc("search", …) and memoizing result windows until
// the next mutation (spec §3, §4.4).
type Query struct {
	client *Client
	table  string // column family hint; "" for non-table dbs

	conditions []Condition
	orderCol   string
	orderDir   uint32
	hasOrder   bool

	cache map[window][]map[string]string
}

type window struct {
	offset, limit int
}

// NewQuery returns an empty Query bound to client.
func (c *Client) NewQuery() *Query {
	return &Query{client: c, cache: make(map[window][]map[string]string)}
}

// Filter adds conditions, AND-combined with any already present, and
// clears the window cache.
func (q *Query) Filter(conds ...Condition) *Query {
	q.conditions = append(q.conditions, conds...)
	q.invalidate()
	return q
}

// Q builds a Condition from a keyword-form predicate spelled
// "column__op" (op defaulting to "eq" when omitted), choosing the string
// or numeric op family based on whether expr parses as a number (spec
// §4.4).
func Q(spelling string, expr string) Condition {
	column, op := spelling, "eq"
	if idx := strings.Index(spelling, "__"); idx >= 0 {
		column, op = spelling[:idx], spelling[idx+2:]
	}
	_, numeric := strconv.ParseFloat(expr, 64)
	isNumeric := numeric == nil

	var code uint32
	switch op {
	case "eq":
		if isNumeric {
			code = CondNumEq
		} else {
			code = CondStrEq
		}
	case "lt":
		code = CondNumLt
	case "le":
		code = CondNumLe
	case "gt":
		code = CondNumGt
	case "ge":
		code = CondNumGe
	case "contains":
		code = CondStrInc
	case "startswith":
		code = CondStrBw
	case "endswith":
		code = CondStrEw
	case "matchregex":
		code = CondStrRx
	default:
		code = CondStrEq
	}
	return Condition{Column: column, Op: code, Expr: expr}
}

// Or fuses a with b per spec §4.4's disjunction rule: both conditions must
// share a column family with an "_or" variant (eq or contains), otherwise
// it returns UnsupportedCombination.
func Or(a, b Condition) (Condition, error) {
	orOp, ok := orCondition[a.Op]
	if !ok || a.Op != b.Op {
		return Condition{}, &UnsupportedCombination{
			Detail: fmt.Sprintf("cannot OR op %d with op %d", a.Op, b.Op),
		}
	}
	return Condition{Column: a.Column, Op: orOp, Expr: a.Expr + "," + b.Expr}, nil
}

// Order sets the sort column/direction from a spelling where an optional
// leading "-" means descending and an optional leading "#" (after any "-")
// means numeric: "col" -> strAsc, "-col" -> strDesc, "#col" -> numAsc,
// "-#col" -> numDesc (spec §4.4, tested in §8 property 6).
func (q *Query) Order(spelling string) *Query {
	col, dir := parseOrder(spelling)
	q.orderCol, q.orderDir, q.hasOrder = col, dir, true
	q.invalidate()
	return q
}

func parseOrder(spelling string) (column string, dir uint32) {
	desc := strings.HasPrefix(spelling, "-")
	if desc {
		spelling = spelling[1:]
	}
	numeric := strings.HasPrefix(spelling, "#")
	if numeric {
		spelling = spelling[1:]
	}
	switch {
	case numeric && desc:
		return spelling, OrderNumDesc
	case numeric:
		return spelling, OrderNumAsc
	case desc:
		return spelling, OrderStrDesc
	default:
		return spelling, OrderStrAsc
	}
}

func (q *Query) invalidate() {
	q.cache = make(map[window][]map[string]string)
}

// windowFor validates and normalizes a slice request into an (offset,
// limit) window, rejecting negative bounds with InvalidRange.
func windowFor(start, stop int, stopGiven bool) (window, error) {
	if start < 0 {
		return window{}, &InvalidRange{Detail: fmt.Sprintf("negative start %d", start)}
	}
	if !stopGiven {
		stop = MaxResults
	}
	if stop < 0 {
		return window{}, &InvalidRange{Detail: fmt.Sprintf("negative stop %d", stop)}
	}
	if stop < start {
		return window{}, &InvalidRange{Detail: fmt.Sprintf("stop %d before start %d", stop, start)}
	}
	return window{offset: start, limit: stop - start}, nil
}

// At fetches the single record at index i (offset=i, limit=1).
func (q *Query) At(i int) (map[string]string, error) {
	if i < 0 {
		return nil, &InvalidRange{Detail: fmt.Sprintf("negative index %d", i)}
	}
	rows, err := q.Slice(i, i+1, true)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, IterEnd
	}
	return rows[0], nil
}

// Slice fetches rows in [start, stop), stop defaulting to MaxResults when
// stopGiven is false, memoizing the window until the next Filter or
// Order call.
func (q *Query) Slice(start, stop int, stopGiven bool) ([]map[string]string, error) {
	w, err := windowFor(start, stop, stopGiven)
	if err != nil {
		return nil, err
	}
	if rows, ok := q.cache[w]; ok {
		return rows, nil
	}

	keys, err := q.search(w)
	if err != nil {
		return nil, err
	}

	rows := make([]map[string]string, len(keys))
	var wg conc.WaitGroup
	errs := make([]error, len(keys))
	for i, k := range keys {
		i, k := i, k
		wg.Go(func() {
			raw, err := q.client.Get(k)
			if err != nil {
				errs[i] = err
				return
			}
			row, perr := parseTableRecord(raw)
			if perr != nil {
				errs[i] = perr
				return
			}
			rows[i] = row
		})
	}
	wg.Wait()
	for _, e := range errs {
		if e != nil {
			return nil, e
		}
	}

	q.cache[w] = rows
	return rows, nil
}

// search runs misc("search", …) with the arguments from searchArgs and
// returns the matched keys.
func (q *Query) search(w window) ([][]byte, error) {
	results, err := q.client.Misc("search", q.searchArgs(w), 0)
	if err != nil {
		return nil, err
	}
	keys := make([][]byte, len(results))
	for i, k := range results {
		keys[i] = []byte(k)
	}
	return keys, nil
}

// searchArgs compiles the query into misc("search", …) arguments in the
// exact order spec §4.4 requires.
func (q *Query) searchArgs(w window) []string {
	args := make([]string, 0, len(q.conditions)+2)
	for _, cnd := range q.conditions {
		args = append(args, fmt.Sprintf("addcond\x00%s\x00%d\x00%s", cnd.Column, cnd.Op, cnd.Expr))
	}
	if q.hasOrder {
		args = append(args, fmt.Sprintf("setorder\x00%s\x00%d", q.orderCol, q.orderDir))
	}
	if w.limit > 0 && w.offset >= 0 {
		args = append(args, fmt.Sprintf("setlimit\x00%d\x00%d", w.limit, w.offset))
	}
	return args
}

// parseTableRecord splits a GET reply on NUL into column/value pairs (spec
// §6). An empty leading token means "no record" (spec §6, mirrored by
// tx-pytokyo.py's _parse_elem: "if not elems[0]: return None") and is
// reported as a nil map with no error; callers treat that as absence.
// Per the documented source ambiguity (c), an odd token count is otherwise
// undefined upstream and surfaces here as DecodeError rather than silently
// dropping the trailing token.
func parseTableRecord(raw []byte) (map[string]string, error) {
	tokens := strings.Split(string(raw), "\x00")
	if tokens[0] == "" {
		return nil, nil
	}
	if len(tokens)%2 != 0 {
		return nil, &DecodeError{Reason: "table record has an odd number of NUL-separated tokens"}
	}
	out := make(map[string]string, len(tokens)/2)
	for i := 0; i+1 < len(tokens); i += 2 {
		out[tokens[i]] = tokens[i+1]
	}
	return out, nil
}
