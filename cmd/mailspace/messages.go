package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/nhle/mailspace/internal/search"
	"github.com/nhle/mailspace/internal/workspace"
)

var (
	messagesAddress string
	messagesMailbox string
	messagesQuery   string
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	unreadStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

var messagesCmd = &cobra.Command{
	Use:   "messages",
	Short: "Print the messages of a mailbox",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Account.Handle == "" {
			return fmt.Errorf("no handle: pass --handle or set account.handle")
		}

		s, err := openSession(cfg)
		if err != nil {
			return err
		}
		defer s.close()

		ctx := cmd.Context()
		reqs, err := s.ws.Login(cfg.Account.Handle)
		if err != nil {
			return err
		}
		s.ws.Settle(ctx, reqs)

		if messagesAddress != "" {
			reqs, err := s.ws.SelectAddress(messagesAddress)
			if err != nil {
				return fmt.Errorf("selecting address %s: %w", messagesAddress, err)
			}
			s.ws.Settle(ctx, reqs)
		}
		if messagesMailbox != "" {
			reqs, err := s.ws.SelectMailbox(messagesMailbox)
			if err != nil {
				return fmt.Errorf("selecting mailbox %s: %w", messagesMailbox, err)
			}
			s.ws.Settle(ctx, reqs)
		}
		s.ws.SetQuery(messagesQuery)

		vm := s.ws.View()
		if vm.Err != nil {
			return vm.Err
		}
		printMessages(cmd.OutOrStdout(), vm)
		return nil
	},
}

func printMessages(w io.Writer, vm workspace.ViewModel) {
	if vm.SelectedAddress == nil || vm.SelectedMailbox == nil {
		fmt.Fprintln(w, "Nothing selected.")
		return
	}

	fmt.Fprintln(w, headingStyle.Render(fmt.Sprintf("%s · %s (%d of %d)",
		vm.SelectedAddress.Address, vm.SelectedMailbox.Name, len(vm.Messages), vm.MailboxSize)))
	if len(vm.Messages) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("  no messages"))
		return
	}

	for _, m := range vm.Messages {
		subject := m.Subject
		if !m.IsRead {
			subject = unreadStyle.Render(subject)
		}
		star := " "
		if m.IsStarred {
			star = "★"
		}
		fmt.Fprintf(w, "%s %-10s %-24s %s\n", star, m.ID, m.Sender, subject)
		fmt.Fprintf(w, "  %s\n", mutedStyle.Render(search.Preview(m.Body)))
	}
}

func init() {
	messagesCmd.Flags().StringVar(&messagesAddress, "address", "", "address id (defaults to the primary address)")
	messagesCmd.Flags().StringVar(&messagesMailbox, "mailbox", "", "mailbox id (defaults to inbox)")
	messagesCmd.Flags().StringVarP(&messagesQuery, "query", "q", "", "filter by subject, sender or preview")
	rootCmd.AddCommand(messagesCmd)
}
