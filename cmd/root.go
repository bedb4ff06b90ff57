package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"xyzrss/pkg/config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "xyzrss",
	Short: "RSS bridge for xiaoyuzhoufm.com podcasts",
	Long: `xyzrss - serve xiaoyuzhoufm.com podcasts as standard RSS feeds

The service fetches a podcast's public page from the platform, extracts the
embedded data payload and republishes it as an RSS 2.0 feed with iTunes
extensions, so any podcast client can subscribe.

Features:
  • Standards-compliant RSS 2.0 with iTunes namespace extensions
  • Tolerant of upstream payload layout changes
  • In-memory response caching with a configurable TTL
  • Per-client rate limiting`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// NewRootCmd returns the root command (exported for testing)
func NewRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	cobra.OnInitialize(loadConfig)
}

// loadConfig loads the configuration when a command needs it
func loadConfig() {
	// Version and help output should never depend on config state.
	cmd, _, _ := rootCmd.Find(os.Args[1:])
	if cmd != nil && (cmd.Name() == "version" || cmd.Name() == "help") {
		return
	}

	if err := config.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing config: %v\n", err)
		os.Exit(1)
	}
}
