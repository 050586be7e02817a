package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	tyrant "github.com/Deepwalker/tx-tokyo"
)

// iterateCmd walks every key in the database, stopping cleanly at IterEnd
// or on SIGINT/SIGTERM. Grounded on the teacher's cmd.go signal-handling
// shape in runServer, applied here to a long-running client loop instead
// of a server accept loop.
var iterateCmd = &cobra.Command{
	Use:   "iterate",
	Short: "Print every key in the database",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := dialClient()
		if err != nil {
			return err
		}
		defer client.Close()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)

		m := client.NewMap()
		next, err := m.IterateKeys()
		if err != nil {
			return err
		}

		for {
			select {
			case <-sigChan:
				fmt.Fprintln(os.Stderr, "iterate: interrupted")
				return nil
			default:
			}

			key, err := next()
			if errors.Is(err, tyrant.IterEnd) {
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Println(string(key))
		}
	},
}
