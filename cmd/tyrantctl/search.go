package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	tyrant "github.com/Deepwalker/tx-tokyo"
)

var (
	searchConds []string
	searchOrder string
	searchLimit int
	searchStart int
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Run a table query and print matching records",
	Long: `search compiles --cond/--order/--limit/--start flags into a
misc("search", ...) call and prints each matched record.

Each --cond is spelled "column__op=expr", e.g. --cond "name__eq=Alice"
or --cond "age__gt=10".`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := dialClient()
		if err != nil {
			return err
		}
		defer client.Close()

		q := client.NewQuery()
		for _, raw := range searchConds {
			spelling, expr, ok := strings.Cut(raw, "=")
			if !ok {
				return fmt.Errorf("malformed --cond %q, expected column__op=expr", raw)
			}
			q.Filter(tyrant.Q(spelling, expr))
		}
		if searchOrder != "" {
			q.Order(searchOrder)
		}

		stop := searchStart + searchLimit
		stopGiven := searchLimit > 0
		rows, err := q.Slice(searchStart, stop, stopGiven)
		if err != nil {
			return err
		}
		for _, row := range rows {
			fmt.Println(formatRow(row))
		}
		return nil
	},
}

func formatRow(row map[string]string) string {
	var b strings.Builder
	first := true
	for col, val := range row {
		if !first {
			b.WriteString("\t")
		}
		first = false
		b.WriteString(col)
		b.WriteString("=")
		b.WriteString(strconv.Quote(val))
	}
	return b.String()
}

func init() {
	searchCmd.Flags().StringArrayVar(&searchConds, "cond", nil, "condition, spelled column__op=expr (repeatable)")
	searchCmd.Flags().StringVar(&searchOrder, "order", "", "order spelling, e.g. -#age")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 0, "max rows to return (0 = library default)")
	searchCmd.Flags().IntVar(&searchStart, "start", 0, "offset to start from")
}
