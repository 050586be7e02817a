package main

import (
	"fmt"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	tyrant "github.com/Deepwalker/tx-tokyo"
)

var version = "0.1.0" // set during build with -ldflags

// rootCmd represents the base command when called without any subcommands.
// Grounded on the teacher's cmd.go rootCmd/PersistentFlags/viper.BindPFlag
// wiring, with the flags themselves swapped from server-listen settings to
// client dial settings.
var rootCmd = &cobra.Command{
	Use:     "tyrantctl",
	Short:   "Command-line client for a Tokyo Tyrant-protocol key/value store",
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringP("host", "H", "127.0.0.1", "Server host")
	rootCmd.PersistentFlags().IntP("port", "p", 1978, "Server port")
	rootCmd.PersistentFlags().Duration("dial-timeout", 10*time.Second, "Connection dial timeout")
	rootCmd.PersistentFlags().Duration("command-timeout", 10*time.Second, "Per-command timeout (stored in the config; commands do not apply it)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (trace, debug, info, warn, error, fatal)")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format (text, json)")
	rootCmd.PersistentFlags().String("separator", "", "List-value separator for the dictionary façade")
	rootCmd.PersistentFlags().Bool("literal", false, "Suppress UTF-8 decoding of values")

	viper.BindPFlag("host", rootCmd.PersistentFlags().Lookup("host"))
	viper.BindPFlag("port", rootCmd.PersistentFlags().Lookup("port"))
	viper.BindPFlag("dial_timeout", rootCmd.PersistentFlags().Lookup("dial-timeout"))
	viper.BindPFlag("command_timeout", rootCmd.PersistentFlags().Lookup("command-timeout"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("separator", rootCmd.PersistentFlags().Lookup("separator"))
	viper.BindPFlag("literal", rootCmd.PersistentFlags().Lookup("literal"))

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(putCmd)
	rootCmd.AddCommand(outCmd)
	rootCmd.AddCommand(mgetCmd)
	rootCmd.AddCommand(statCmd)
	rootCmd.AddCommand(rnumCmd)
	rootCmd.AddCommand(sizeCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(iterateCmd)
}

// versionCmd shows version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("tyrantctl v%s\n", version)
		fmt.Printf("Built with Go %s\n", runtime.Version())
		fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	},
}

// dialClient loads Config from viper/flags and dials a Client.
func dialClient() (*tyrant.Client, error) {
	config, err := tyrant.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return tyrant.Dial(config)
}
