package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/mailspace/internal/credential"
)

var credentialCmd = &cobra.Command{
	Use:   "credential",
	Short: "Manage server passwords in the OS keyring",
}

var credentialSetCmd = &cobra.Command{
	Use:       "set imap|smtp",
	Short:     "Store a password read from stdin",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"imap", "smtp"},
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := credentialKey(args[0])
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.ErrOrStderr(), "%s password: ", args[0])
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("reading password: %w", err)
		}
		password := strings.TrimRight(line, "\r\n")
		if password == "" {
			return fmt.Errorf("empty password")
		}

		creds, err := credential.Open()
		if err != nil {
			return err
		}
		if err := creds.Set(key, password); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Stored %s password.\n", args[0])
		return nil
	},
}

var credentialDeleteCmd = &cobra.Command{
	Use:       "delete imap|smtp",
	Short:     "Remove a stored password",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"imap", "smtp"},
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := credentialKey(args[0])
		if err != nil {
			return err
		}
		creds, err := credential.Open()
		if err != nil {
			return err
		}
		if err := creds.Delete(key); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s password.\n", args[0])
		return nil
	},
}

func credentialKey(name string) (string, error) {
	switch name {
	case "imap":
		return credential.KeyIMAP, nil
	case "smtp":
		return credential.KeySMTP, nil
	default:
		return "", fmt.Errorf("unknown server %q (want imap or smtp)", name)
	}
}

func init() {
	credentialCmd.AddCommand(credentialSetCmd, credentialDeleteCmd)
	rootCmd.AddCommand(credentialCmd)
}
