// Package email derives mailboxes and messages for one address from a
// real IMAP server.
package email

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"

	"github.com/nhle/mailspace/internal/directory"
	"github.com/nhle/mailspace/internal/model"
	"github.com/nhle/mailspace/internal/source"
)

const inboxName = "INBOX"

// Client wraps go-imap v2. Every listing opens its own connection so a
// slow server never holds state between derivations.
type Client struct {
	cfg      model.IMAPConfig
	password source.PasswordFunc
	limit    int
	logger   *slog.Logger
}

var _ directory.RemoteSource = (*Client)(nil)

// NewClient returns a client for cfg. limit caps the messages fetched per
// folder; zero fetches everything.
func NewClient(cfg model.IMAPConfig, password source.PasswordFunc, limit int, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{cfg: cfg, password: password, limit: limit, logger: logger}
}

// Connect dials the server and authenticates. The caller is responsible
// for calling Logout on the returned client.
func (c *Client) Connect(ctx context.Context) (*imapclient.Client, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	addr := net.JoinHostPort(c.cfg.Host, c.cfg.Port)

	var client *imapclient.Client
	var err error
	if c.cfg.TLS {
		client, err = imapclient.DialTLS(addr, nil)
	} else {
		client, err = imapclient.DialStartTLS(addr, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("connecting to IMAP %s: %w", addr, err)
	}

	var password string
	if c.password != nil {
		if password, err = c.password(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("reading IMAP password: %w", err)
		}
	}

	if err := client.Login(c.cfg.Username, password).Wait(); err != nil {
		_ = client.Logout().Wait()
		return nil, &source.AuthError{
			Server:  addr,
			Message: fmt.Sprintf("authentication failed for %s: %v", c.cfg.Username, err),
		}
	}
	return client, nil
}

// ListMailboxes implements directory.MailboxSource. Special-use folders
// map onto the canonical kinds; Starred counts the flagged part of INBOX.
func (c *Client) ListMailboxes(ctx context.Context, addr model.EmailAddress) ([]model.Mailbox, error) {
	client, err := c.Connect(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = client.Logout().Wait() }()

	folders, err := listFolders(client)
	if err != nil {
		return nil, err
	}

	boxes := make([]model.Mailbox, 0, len(folders)+1)
	for _, f := range folders {
		st, err := client.Status(f.name, &imap.StatusOptions{NumMessages: true, NumUnseen: true}).Wait()
		if err != nil {
			c.logger.Warn("status failed", "mailbox", f.name, "error", err)
			boxes = append(boxes, f.mailbox)
			continue
		}
		boxes = append(boxes, withStatus(f.mailbox, st))
	}

	starred, err := c.starredCounts(client)
	if err != nil {
		return nil, err
	}
	boxes = append(boxes, starred)

	c.logger.Debug("listed imap mailboxes", "address", addr.Address, "count", len(boxes))
	return directory.NormalizeMailboxes(boxes), nil
}

// ListMessages implements directory.MessageSource. Unknown folders are
// empty.
func (c *Client) ListMessages(ctx context.Context, addr model.EmailAddress, mailboxID string) ([]model.Message, error) {
	client, err := c.Connect(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = client.Logout().Wait() }()

	criteria := &imap.SearchCriteria{}
	name := inboxName
	if mailboxID == string(model.MailboxStarred) {
		criteria.Flag = []imap.Flag{imap.FlagFlagged}
	} else {
		folders, err := listFolders(client)
		if err != nil {
			return nil, err
		}
		var ok bool
		if name, ok = resolve(folders, mailboxID); !ok {
			return nil, nil
		}
	}

	if _, err := client.Select(name, &imap.SelectOptions{ReadOnly: true}).Wait(); err != nil {
		return nil, fmt.Errorf("selecting %s: %w", name, err)
	}

	searchData, err := client.UIDSearch(criteria, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("searching %s: %w", name, err)
	}
	uids := searchData.AllUIDs()
	if len(uids) == 0 {
		return nil, nil
	}
	if c.limit > 0 && len(uids) > c.limit {
		uids = uids[len(uids)-c.limit:]
	}

	section := &imap.FetchItemBodySection{Peek: true}
	fetchCmd := client.Fetch(imap.UIDSetNum(uids...), &imap.FetchOptions{
		Envelope:    true,
		Flags:       true,
		UID:         true,
		BodySection: []*imap.FetchItemBodySection{section},
	})
	defer fetchCmd.Close()

	var out []model.Message
	for {
		msg := fetchCmd.Next()
		if msg == nil {
			break
		}
		buf, err := msg.Collect()
		if err != nil {
			c.logger.Warn("collecting message failed", "mailbox", name, "error", err)
			continue
		}
		out = append(out, buildMessage(strconv.FormatUint(uint64(buf.UID), 10), buf.Flags, buf.Envelope, buf.FindBodySection(section)))
	}
	if err := fetchCmd.Close(); err != nil {
		return nil, fmt.Errorf("fetching %s messages: %w", name, err)
	}

	c.logger.Debug("fetched imap messages", "address", addr.Address, "mailbox", mailboxID, "count", len(out))
	return directory.NormalizeMessages(out), nil
}

func (c *Client) starredCounts(client *imapclient.Client) (model.Mailbox, error) {
	mb := model.Mailbox{
		ID:   string(model.MailboxStarred),
		Name: model.MailboxStarred.DisplayName(),
		Kind: model.MailboxStarred,
	}
	if _, err := client.Select(inboxName, &imap.SelectOptions{ReadOnly: true}).Wait(); err != nil {
		return mb, fmt.Errorf("selecting %s: %w", inboxName, err)
	}

	flagged, err := client.UIDSearch(&imap.SearchCriteria{Flag: []imap.Flag{imap.FlagFlagged}}, nil).Wait()
	if err != nil {
		return mb, fmt.Errorf("searching flagged messages: %w", err)
	}
	unread, err := client.UIDSearch(&imap.SearchCriteria{
		Flag:    []imap.Flag{imap.FlagFlagged},
		NotFlag: []imap.Flag{imap.FlagSeen},
	}, nil).Wait()
	if err != nil {
		return mb, fmt.Errorf("searching unread flagged messages: %w", err)
	}

	mb.TotalCount = len(flagged.AllUIDs())
	mb.UnreadCount = len(unread.AllUIDs())
	return mb, nil
}

func listFolders(client *imapclient.Client) ([]folder, error) {
	list, err := client.List("", "*", nil).Collect()
	if err != nil {
		return nil, fmt.Errorf("listing mailboxes: %w", err)
	}
	folders := make([]folder, 0, len(list))
	for _, ld := range list {
		if f, ok := folderFromList(ld); ok {
			folders = append(folders, f)
		}
	}
	return folders, nil
}
