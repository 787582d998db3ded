package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the gmcp application
var rootCmd = &cobra.Command{
	Use:   "gmcp",
	Short: "MCP server for Gmail and Google Calendar",
	Long: `gmcp exposes Gmail and Google Calendar as MCP (Model Context
Protocol) tools for AI assistants.

Run 'gmcp auth' once to authorize a Google account, then 'gmcp serve'
to start the server.`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "gmcp version %s\n" .Version}}`)

	// If no subcommand is provided, run the serve command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newVersionCmd())
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the gmcp version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("gmcp version %s\n", version)
		},
	}
}

// defaultCredentialsPath resolves the credentials file path from the
// flag, the environment, or the default under the home directory.
func defaultCredentialsPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv("GMCP_CREDENTIALS_PATH"); env != "" {
		return env
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "credentials.json"
	}
	return filepath.Join(home, ".gmcp", "credentials.json")
}

// defaultTokenPath resolves the token file path the same way.
func defaultTokenPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv("GMCP_TOKEN_PATH"); env != "" {
		return env
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "token.json"
	}
	return filepath.Join(home, ".gmcp", "token.json")
}
