package main

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mimescan",
	Short: "stream an RFC 5322 / MIME message and report its structure",
	Long: `mimescan reads a message from a file or stdin and feeds it through the
streaming MIME parser, printing a summary of the entities, headers, and
any obsolete or unexpected syntax it salvaged along the way.`,
	Run: nil,
}

var verbose bool

func init() {
	cobra.OnInitialize()
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"print out more debug information")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(log.DebugLevel)
		} else {
			log.SetLevel(log.InfoLevel)
		}
	}
}
