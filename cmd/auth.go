package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/johnie/gmcp-sub000/internal/google"
)

func newAuthCmd() *cobra.Command {
	var (
		credentialsPath string
		tokenPath       string
	)

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authorize a Google account",
		Long: `Run the one-time OAuth flow: open the printed URL in a browser,
grant access, and paste the authorization code back. The resulting
token is stored on disk and refreshed automatically from then on.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAuth(cmd.Context(),
				defaultCredentialsPath(credentialsPath),
				defaultTokenPath(tokenPath))
		},
	}

	cmd.Flags().StringVar(&credentialsPath, "credentials", "", "Path to the OAuth client credentials file. Can also use GMCP_CREDENTIALS_PATH env var.")
	cmd.Flags().StringVar(&tokenPath, "token", "", "Path to store the user token. Can also use GMCP_TOKEN_PATH env var.")

	return cmd
}

func runAuth(ctx context.Context, credentialsPath, tokenPath string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := google.LoadCredentials(credentialsPath)
	if err != nil {
		return err
	}

	fmt.Println("Visit this URL in your browser and grant access:")
	fmt.Println()
	fmt.Printf("  %s\n", google.AuthURL(cfg))
	fmt.Println()
	fmt.Print("Paste the authorization code here: ")

	reader := bufio.NewReader(os.Stdin)
	code, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read authorization code: %w", err)
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return fmt.Errorf("no authorization code provided")
	}

	store := google.NewTokenStore(tokenPath)
	if err := google.Authorize(ctx, cfg, store, code); err != nil {
		return err
	}

	fmt.Printf("Token saved to %s\n", store.Path())
	return nil
}
