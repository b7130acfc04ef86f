// Package selection owns the cascading (address, mailbox, message)
// selection. Every change goes through an explicit transition table, and
// any change to an upstream level clears the levels below it.
package selection

import (
	"errors"
	"fmt"
	"slices"
)

// ErrInvalidSelection is returned when an id is not in the currently
// derived list, or the event is not legal in the current state. The
// selection is left unchanged.
var ErrInvalidSelection = errors.New("invalid selection")

// Selection is the current cascade. Empty strings mean absent.
type Selection struct {
	AddressID string
	MailboxID string
	MessageID string
}

// State is the depth of the current selection.
type State int

const (
	Idle State = iota
	AddressSelected
	MailboxSelected
	MessageSelected
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AddressSelected:
		return "address"
	case MailboxSelected:
		return "mailbox"
	case MessageSelected:
		return "message"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// State reports how deep s is.
func (s Selection) State() State {
	switch {
	case s.AddressID == "":
		return Idle
	case s.MailboxID == "":
		return AddressSelected
	case s.MessageID == "":
		return MailboxSelected
	default:
		return MessageSelected
	}
}

// Event is an input to the controller.
type Event int

const (
	SelectAddress Event = iota
	SelectMailbox
	SelectMessage
	ClearMessage
	AddressesDerived
	MailboxesDerived
	MessagesDerived
	Reset
)

func (e Event) String() string {
	switch e {
	case SelectAddress:
		return "selectAddress"
	case SelectMailbox:
		return "selectMailbox"
	case SelectMessage:
		return "selectMessage"
	case ClearMessage:
		return "clearMessage"
	case AddressesDerived:
		return "addressesDerived"
	case MailboxesDerived:
		return "mailboxesDerived"
	case MessagesDerived:
		return "messagesDerived"
	case Reset:
		return "reset"
	default:
		return fmt.Sprintf("Event(%d)", int(e))
	}
}

// Lists exposes the derived id lists the controller validates against.
// ready is false while the list for that key has not been derived.
type Lists interface {
	AddressIDs() (ids []string, ready bool)
	MailboxIDs(addressID string) (ids []string, ready bool)
	MessageIDs(addressID, mailboxID string) (ids []string, ready bool)
}

// Input carries the arguments of an event.
type Input struct {
	ID        string
	AddressID string
	MailboxID string
}

// Change reports which levels of the selection a transition modified.
type Change struct {
	Address bool
	Mailbox bool
	Message bool
}

// Any reports whether anything changed.
func (c Change) Any() bool {
	return c.Address || c.Mailbox || c.Message
}

func diff(before, after Selection) Change {
	return Change{
		Address: before.AddressID != after.AddressID,
		Mailbox: before.MailboxID != after.MailboxID,
		Message: before.MessageID != after.MessageID,
	}
}

type transition func(c *Controller, in Input) (Selection, error)

// transitions lists every legal (state, event) pair. Anything missing is
// rejected with ErrInvalidSelection.
var transitions = map[State]map[Event]transition{
	Idle: {
		SelectAddress:    selectAddress,
		ClearMessage:     keep,
		AddressesDerived: addressesDerived,
		MailboxesDerived: keep,
		MessagesDerived:  keep,
		Reset:            reset,
	},
	AddressSelected: {
		SelectAddress:    selectAddress,
		SelectMailbox:    selectMailbox,
		ClearMessage:     keep,
		AddressesDerived: addressesDerived,
		MailboxesDerived: mailboxesDerived,
		MessagesDerived:  keep,
		Reset:            reset,
	},
	MailboxSelected: {
		SelectAddress:    selectAddress,
		SelectMailbox:    selectMailbox,
		SelectMessage:    selectMessage,
		ClearMessage:     keep,
		AddressesDerived: addressesDerived,
		MailboxesDerived: mailboxesDerived,
		MessagesDerived:  keep,
		Reset:            reset,
	},
	MessageSelected: {
		SelectAddress:    selectAddress,
		SelectMailbox:    selectMailbox,
		SelectMessage:    selectMessage,
		ClearMessage:     clearMessage,
		AddressesDerived: addressesDerived,
		MailboxesDerived: mailboxesDerived,
		MessagesDerived:  messagesDerived,
		Reset:            reset,
	},
}

// Controller is the SelectionController. It is not safe for concurrent
// use; the UI loop owns it.
type Controller struct {
	lists Lists
	sel   Selection
}

// New returns an idle controller validating against lists.
func New(lists Lists) *Controller {
	return &Controller{lists: lists}
}

// Selection returns the current selection.
func (c *Controller) Selection() Selection {
	return c.sel
}

// State returns the depth of the current selection.
func (c *Controller) State() State {
	return c.sel.State()
}

// Fire applies ev. On error the selection is unchanged.
func (c *Controller) Fire(ev Event, in Input) (Change, error) {
	fn, ok := transitions[c.sel.State()][ev]
	if !ok {
		return Change{}, fmt.Errorf("%w: %s not allowed in state %s", ErrInvalidSelection, ev, c.sel.State())
	}
	next, err := fn(c, in)
	if err != nil {
		return Change{}, err
	}
	change := diff(c.sel, next)
	c.sel = next
	return change, nil
}

// SelectAddress selects id, resets the mailbox to the first derived
// folder of id (or absent while that list is not derived) and clears the
// message.
func (c *Controller) SelectAddress(id string) (Change, error) {
	return c.Fire(SelectAddress, Input{ID: id})
}

// SelectMailbox selects a folder of the current address and clears the
// message.
func (c *Controller) SelectMailbox(id string) (Change, error) {
	return c.Fire(SelectMailbox, Input{ID: id})
}

// SelectMessage selects a message of the current (address, mailbox) list.
func (c *Controller) SelectMessage(id string) (Change, error) {
	return c.Fire(SelectMessage, Input{ID: id})
}

// ClearMessage drops the message and leaves address and mailbox alone.
func (c *Controller) ClearMessage() Change {
	change, _ := c.Fire(ClearMessage, Input{})
	return change
}

// AddressesDerived reconciles the selection with a newly derived address
// list: an idle controller selects the first (primary) address, and a
// selected address missing from the list is replaced the same way.
func (c *Controller) AddressesDerived() Change {
	change, _ := c.Fire(AddressesDerived, Input{})
	return change
}

// MailboxesDerived reconciles the selection with the mailbox list just
// derived for addressID.
func (c *Controller) MailboxesDerived(addressID string) Change {
	change, _ := c.Fire(MailboxesDerived, Input{AddressID: addressID})
	return change
}

// MessagesDerived reconciles the selection with the message list just
// derived for (addressID, mailboxID).
func (c *Controller) MessagesDerived(addressID, mailboxID string) Change {
	change, _ := c.Fire(MessagesDerived, Input{AddressID: addressID, MailboxID: mailboxID})
	return change
}

// Reset returns the controller to idle.
func (c *Controller) Reset() Change {
	change, _ := c.Fire(Reset, Input{})
	return change
}

func keep(c *Controller, _ Input) (Selection, error) {
	return c.sel, nil
}

func reset(*Controller, Input) (Selection, error) {
	return Selection{}, nil
}

func selectAddress(c *Controller, in Input) (Selection, error) {
	ids, ready := c.lists.AddressIDs()
	if in.ID == "" || !ready || !slices.Contains(ids, in.ID) {
		return c.sel, fmt.Errorf("%w: address %q", ErrInvalidSelection, in.ID)
	}
	return c.withAddress(in.ID), nil
}

func (c *Controller) withAddress(id string) Selection {
	next := Selection{AddressID: id}
	if boxes, ready := c.lists.MailboxIDs(id); ready && len(boxes) > 0 {
		next.MailboxID = boxes[0]
	}
	return next
}

func selectMailbox(c *Controller, in Input) (Selection, error) {
	ids, ready := c.lists.MailboxIDs(c.sel.AddressID)
	if in.ID == "" || !ready || !slices.Contains(ids, in.ID) {
		return c.sel, fmt.Errorf("%w: mailbox %q", ErrInvalidSelection, in.ID)
	}
	return Selection{AddressID: c.sel.AddressID, MailboxID: in.ID}, nil
}

func selectMessage(c *Controller, in Input) (Selection, error) {
	ids, ready := c.lists.MessageIDs(c.sel.AddressID, c.sel.MailboxID)
	if in.ID == "" || !ready || !slices.Contains(ids, in.ID) {
		return c.sel, fmt.Errorf("%w: message %q", ErrInvalidSelection, in.ID)
	}
	next := c.sel
	next.MessageID = in.ID
	return next, nil
}

func clearMessage(c *Controller, _ Input) (Selection, error) {
	next := c.sel
	next.MessageID = ""
	return next, nil
}

func addressesDerived(c *Controller, _ Input) (Selection, error) {
	ids, ready := c.lists.AddressIDs()
	if !ready {
		return c.sel, nil
	}
	if c.sel.AddressID != "" && slices.Contains(ids, c.sel.AddressID) {
		return c.sel, nil
	}
	if len(ids) == 0 {
		return Selection{}, nil
	}
	return c.withAddress(ids[0]), nil
}

func mailboxesDerived(c *Controller, in Input) (Selection, error) {
	if in.AddressID != c.sel.AddressID {
		return c.sel, nil
	}
	ids, ready := c.lists.MailboxIDs(in.AddressID)
	if !ready {
		return c.sel, nil
	}
	if c.sel.MailboxID != "" && slices.Contains(ids, c.sel.MailboxID) {
		return c.sel, nil
	}
	return c.withAddress(c.sel.AddressID), nil
}

func messagesDerived(c *Controller, in Input) (Selection, error) {
	if in.AddressID != c.sel.AddressID || in.MailboxID != c.sel.MailboxID {
		return c.sel, nil
	}
	ids, ready := c.lists.MessageIDs(in.AddressID, in.MailboxID)
	if !ready || slices.Contains(ids, c.sel.MessageID) {
		return c.sel, nil
	}
	next := c.sel
	next.MessageID = ""
	return next, nil
}
