// Package editor holds an in-progress draft and the text buffer its body
// is edited in.
package editor

import "unicode"

// Buffer is a flat text buffer with a selection [start, end). Positions
// are rune offsets and are always kept within [0, Len()]. An empty
// selection (start == end) is a plain cursor.
type Buffer struct {
	text  []rune
	start int
	end   int
}

// NewBuffer returns a buffer holding s with the cursor at position 0.
func NewBuffer(s string) *Buffer {
	return &Buffer{text: []rune(s)}
}

// String returns the buffer contents.
func (b *Buffer) String() string {
	return string(b.text)
}

// Len returns the number of runes in the buffer.
func (b *Buffer) Len() int {
	return len(b.text)
}

// Selection returns the selected range.
func (b *Buffer) Selection() (start, end int) {
	return b.start, b.end
}

// Cursor returns the start of the selection.
func (b *Buffer) Cursor() int {
	return b.start
}

// Selected returns the selected text.
func (b *Buffer) Selected() string {
	return string(b.text[b.start:b.end])
}

// SetSelection selects [start, end). Out-of-range positions are clamped
// and reversed ranges are swapped.
func (b *Buffer) SetSelection(start, end int) {
	start, end = b.clamp(start), b.clamp(end)
	if start > end {
		start, end = end, start
	}
	b.start, b.end = start, end
}

// SetCursor collapses the selection to pos.
func (b *Buffer) SetCursor(pos int) {
	b.SetSelection(pos, pos)
}

func (b *Buffer) clamp(pos int) int {
	if pos < 0 {
		return 0
	}
	if pos > len(b.text) {
		return len(b.text)
	}
	return pos
}

// Replace substitutes s for [start, end) and returns the range s now
// occupies. The selection is not moved.
func (b *Buffer) Replace(start, end int, s string) (int, int) {
	start, end = b.clamp(start), b.clamp(end)
	if start > end {
		start, end = end, start
	}
	ins := []rune(s)
	next := make([]rune, 0, len(b.text)-(end-start)+len(ins))
	next = append(next, b.text[:start]...)
	next = append(next, ins...)
	next = append(next, b.text[end:]...)
	b.text = next
	b.start, b.end = b.clamp(b.start), b.clamp(b.end)
	return start, start + len(ins)
}

// Wrap surrounds [start, end) with open and close and returns the range
// covering the wrapped text including both delimiters.
func (b *Buffer) Wrap(start, end int, open, close string) (int, int) {
	start, end = b.clamp(start), b.clamp(end)
	if start > end {
		start, end = end, start
	}
	inner := string(b.text[start:end])
	return b.Replace(start, end, open+inner+close)
}

// RuneBefore returns the rune preceding pos, or false at position 0.
func (b *Buffer) RuneBefore(pos int) (rune, bool) {
	pos = b.clamp(pos)
	if pos == 0 {
		return 0, false
	}
	return b.text[pos-1], true
}

// LineAt returns the bounds of the line containing pos. end excludes the
// trailing newline. A position just before a newline belongs to the line
// the newline ends.
func (b *Buffer) LineAt(pos int) (start, end int) {
	pos = b.clamp(pos)
	start = pos
	for start > 0 && b.text[start-1] != '\n' {
		start--
	}
	end = pos
	for end < len(b.text) && b.text[end] != '\n' {
		end++
	}
	return start, end
}

// Insert replaces the selection with s and leaves the cursor after it.
func (b *Buffer) Insert(s string) {
	_, end := b.Replace(b.start, b.end, s)
	b.SetCursor(end)
}

// DeleteBackward removes the selection, or the rune before the cursor.
func (b *Buffer) DeleteBackward() {
	if b.start != b.end {
		b.Insert("")
		return
	}
	if b.start == 0 {
		return
	}
	pos := b.start - 1
	b.Replace(pos, b.start, "")
	b.SetCursor(pos)
}

// DeleteForward removes the selection, or the rune after the cursor.
func (b *Buffer) DeleteForward() {
	if b.start != b.end {
		b.Insert("")
		return
	}
	if b.start == len(b.text) {
		return
	}
	b.Replace(b.start, b.start+1, "")
	b.SetCursor(b.start)
}

// MoveLeft moves the cursor one rune left. With extend the selection's
// start moves and its end stays.
func (b *Buffer) MoveLeft(extend bool) {
	if extend {
		b.SetSelection(b.start-1, b.end)
		return
	}
	if b.start != b.end {
		b.SetCursor(b.start)
		return
	}
	b.SetCursor(b.start - 1)
}

// MoveRight moves the cursor one rune right. With extend the selection's
// end moves and its start stays.
func (b *Buffer) MoveRight(extend bool) {
	if extend {
		b.SetSelection(b.start, b.end+1)
		return
	}
	if b.start != b.end {
		b.SetCursor(b.end)
		return
	}
	b.SetCursor(b.start + 1)
}

// MoveUp moves the cursor to the same column of the previous line,
// clamped to that line's length.
func (b *Buffer) MoveUp() {
	start, _ := b.LineAt(b.start)
	if start == 0 {
		b.SetCursor(0)
		return
	}
	col := b.start - start
	prevStart, prevEnd := b.LineAt(start - 1)
	b.SetCursor(min(prevStart+col, prevEnd))
}

// MoveDown moves the cursor to the same column of the next line, clamped
// to that line's length.
func (b *Buffer) MoveDown() {
	start, end := b.LineAt(b.start)
	if end == len(b.text) {
		b.SetCursor(end)
		return
	}
	col := b.start - start
	nextStart, nextEnd := b.LineAt(end + 1)
	b.SetCursor(min(nextStart+col, nextEnd))
}

// Home moves the cursor to the start of its line.
func (b *Buffer) Home() {
	start, _ := b.LineAt(b.start)
	b.SetCursor(start)
}

// End moves the cursor to the end of its line.
func (b *Buffer) End() {
	_, end := b.LineAt(b.start)
	b.SetCursor(end)
}

// CursorPosition returns the zero-based line and column of the cursor.
func (b *Buffer) CursorPosition() (line, col int) {
	for i := 0; i < b.start; i++ {
		if b.text[i] == '\n' {
			line++
			col = 0
			continue
		}
		col++
	}
	return line, col
}

func trimLeftSpace(s []rune) []rune {
	i := 0
	for i < len(s) && unicode.IsSpace(s[i]) {
		i++
	}
	return s[i:]
}
