package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Fetch a value by key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := dialClient()
		if err != nil {
			return err
		}
		defer client.Close()

		value, err := client.Get([]byte(args[0]))
		if err != nil {
			return err
		}
		fmt.Println(string(value))
		return nil
	},
}

var putCmd = &cobra.Command{
	Use:   "put <key> <value>",
	Short: "Store a value under a key",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := dialClient()
		if err != nil {
			return err
		}
		defer client.Close()

		return client.Put([]byte(args[0]), []byte(args[1]))
	},
}

var outCmd = &cobra.Command{
	Use:   "out <key>",
	Short: "Delete a key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := dialClient()
		if err != nil {
			return err
		}
		defer client.Close()

		return client.Out([]byte(args[0]))
	},
}

var mgetCmd = &cobra.Command{
	Use:   "mget <key>...",
	Short: "Fetch several keys in one round trip",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := dialClient()
		if err != nil {
			return err
		}
		defer client.Close()

		keys := make([][]byte, len(args))
		for i, a := range args {
			keys[i] = []byte(a)
		}
		pairs, err := client.MGet(keys)
		if err != nil {
			return err
		}
		for _, kv := range pairs {
			fmt.Printf("%s\t%s\n", kv.Key, kv.Value)
		}
		return nil
	},
}

var statCmd = &cobra.Command{
	Use:   "stat",
	Short: "Show server status text",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := dialClient()
		if err != nil {
			return err
		}
		defer client.Close()

		text, err := client.Stat()
		if err != nil {
			return err
		}
		fmt.Println(text)
		return nil
	},
}

var rnumCmd = &cobra.Command{
	Use:   "rnum",
	Short: "Show the number of records",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := dialClient()
		if err != nil {
			return err
		}
		defer client.Close()

		n, err := client.Rnum()
		if err != nil {
			return err
		}
		fmt.Println(n)
		return nil
	},
}

var sizeCmd = &cobra.Command{
	Use:   "size",
	Short: "Show the database file size in bytes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := dialClient()
		if err != nil {
			return err
		}
		defer client.Close()

		n, err := client.Size()
		if err != nil {
			return err
		}
		fmt.Println(n)
		return nil
	},
}
