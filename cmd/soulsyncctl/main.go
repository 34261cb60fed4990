package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ReplicantCoder9000/projectSoulSync/client"
)

var (
	apiFlag   string
	tokenFlag string
	rootCmd   = &cobra.Command{
		Use:   "soulsyncctl",
		Short: "CLI client for the SoulSync REST API",
	}
)

// newClient builds an SDK client with the file token store so the session
// survives between invocations.
func newClient() (*client.Client, error) {
	store, err := client.NewFileTokenStore(tokenFlag)
	if err != nil {
		return nil, err
	}
	return client.New(apiFlag, client.WithTokenStore(store))
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&apiFlag, "api", "a", "http://localhost:5001", "SoulSync API base URL")
	rootCmd.PersistentFlags().StringVar(&tokenFlag, "token-file", "", "Session token path (default ~/.soulsync/token)")

	rootCmd.AddCommand(newRegisterCmd())
	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newProfileCmd())
	rootCmd.AddCommand(newEntriesCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newWatchCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
