package editor

import (
	"strings"

	"github.com/nhle/mailspace/internal/model"
)

// Style is an inline text style.
type Style int

const (
	Bold Style = iota
	Italic
	Underline
)

func (s Style) delimiters() (open, close string, ok bool) {
	switch s {
	case Bold:
		return "**", "**", true
	case Italic:
		return "*", "*", true
	case Underline:
		return "<u>", "</u>", true
	}
	return "", "", false
}

// Alignment is a block alignment for a single line.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
)

const (
	centerOpen  = "<center>"
	centerClose = "</center>"

	// Bullet is the list marker inserted by InsertBullet.
	Bullet = "• "
)

// Editor owns one draft while it is being composed. Only the UI loop
// mutates it.
type Editor struct {
	draft model.Draft
	body  *Buffer
}

// New starts editing d with the cursor at the top of the body, above
// any quoted block.
func New(d model.Draft) *Editor {
	d = d.Clone()
	body := NewBuffer(d.Body)
	d.Body = ""
	return &Editor{draft: d, body: body}
}

// Draft returns a snapshot of the draft including the current body.
func (e *Editor) Draft() model.Draft {
	d := e.draft.Clone()
	d.Body = e.body.String()
	return d
}

// Body returns the body buffer.
func (e *Editor) Body() *Buffer {
	return e.body
}

// SetTo replaces the To recipients.
func (e *Editor) SetTo(to []string) { e.draft.To = append([]string(nil), to...) }

// SetCC replaces the Cc recipients.
func (e *Editor) SetCC(cc []string) { e.draft.CC = append([]string(nil), cc...) }

// SetBCC replaces the Bcc recipients.
func (e *Editor) SetBCC(bcc []string) { e.draft.BCC = append([]string(nil), bcc...) }

// SetSubject replaces the subject.
func (e *Editor) SetSubject(s string) { e.draft.Subject = s }

// SetID records the id the draft was saved under.
func (e *Editor) SetID(id string) { e.draft.ID = id }

// ApplyInlineStyle wraps the selection in the delimiters of style and
// selects the wrapped text, delimiters included, so styles compose. An
// empty selection leaves the buffer untouched.
func (e *Editor) ApplyInlineStyle(style Style) {
	start, end := e.body.Selection()
	if start == end {
		return
	}
	open, close, ok := style.delimiters()
	if !ok {
		return
	}
	ws, we := e.body.Wrap(start, end, open, close)
	e.body.SetSelection(ws, we)
}

// AlignLine rewrites the line under the cursor. Left strips leading
// whitespace and removes a center wrapper; center strips leading
// whitespace and wraps the line once. The cursor ends up at the end of
// the rewritten line.
func (e *Editor) AlignLine(mode Alignment) {
	start, end := e.body.LineAt(e.body.Cursor())
	line := string(trimLeftSpace(e.body.text[start:end]))
	inner, centered := unwrapCenter(line)

	var next string
	switch mode {
	case AlignLeft:
		next = string(trimLeftSpace([]rune(inner)))
	case AlignCenter:
		if centered {
			next = line
		} else {
			next = centerOpen + line + centerClose
		}
	default:
		return
	}
	_, ne := e.body.Replace(start, end, next)
	e.body.SetCursor(ne)
}

func unwrapCenter(line string) (string, bool) {
	if strings.HasPrefix(line, centerOpen) && strings.HasSuffix(line, centerClose) &&
		len(line) >= len(centerOpen)+len(centerClose) {
		return line[len(centerOpen) : len(line)-len(centerClose)], true
	}
	return line, false
}

// InsertBullet inserts the bullet marker at the cursor, preceded by a
// newline unless the cursor is at the start of the buffer or right after
// a newline. The cursor lands after the marker.
func (e *Editor) InsertBullet() {
	pos := e.body.Cursor()
	marker := Bullet
	if r, ok := e.body.RuneBefore(pos); ok && r != '\n' {
		marker = "\n" + Bullet
	}
	_, end := e.body.Replace(pos, pos, marker)
	e.body.SetCursor(end)
}
