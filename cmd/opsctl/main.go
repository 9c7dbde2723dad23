// Command opsctl renders the onboarding board in a terminal. It works on
// the built-in seed or a ticket fixture and never talks to the API.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"stealthcompany.com/opsboard/internal/store"
	"stealthcompany.com/opsboard/internal/ticket"
)

var (
	fixturePath string
	statusFlag  string
	sortFlag    string
)

var rootCmd = &cobra.Command{
	Use:           "opsctl",
	Short:         "Terminal view of the onboarding operations board",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&fixturePath, "fixture", "", "JSON or YAML ticket fixture (default: built-in seed)")

	listCmd.Flags().StringVar(&statusFlag, "status", "", "filter bucket (All, With Exceptions, Final Review, Waiting Signature)")
	listCmd.Flags().StringVar(&sortFlag, "sort", "", "sort key (sla, exceptions, progress, client)")

	rootCmd.AddCommand(listCmd, showCmd, stageCmd, recommendCmd)
}

// loadStore builds a board from the fixture flag or the built-in seed.
func loadStore() (*store.Store, error) {
	if fixturePath == "" {
		return store.New(ticket.Seed()), nil
	}
	tickets, err := ticket.LoadFixture(fixturePath)
	if err != nil {
		return nil, err
	}
	return store.New(tickets), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error: "+err.Error()))
		os.Exit(1)
	}
}
