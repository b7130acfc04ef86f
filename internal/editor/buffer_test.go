package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetSelectionClampsAndOrders(t *testing.T) {
	b := NewBuffer("hello")

	b.SetSelection(10, -3)
	start, end := b.Selection()
	assert.Equal(t, 0, start)
	assert.Equal(t, 5, end)

	b.SetCursor(99)
	assert.Equal(t, 5, b.Cursor())
}

func TestReplaceAndWrap(t *testing.T) {
	b := NewBuffer("abc")
	s, e := b.Replace(1, 2, "XYZ")
	assert.Equal(t, "aXYZc", b.String())
	assert.Equal(t, 1, s)
	assert.Equal(t, 4, e)

	s, e = b.Wrap(1, 4, "[", "]")
	assert.Equal(t, "a[XYZ]c", b.String())
	assert.Equal(t, 1, s)
	assert.Equal(t, 6, e)
}

func TestLineAt(t *testing.T) {
	b := NewBuffer("ab\ncd\n\nef")
	tests := []struct {
		pos        int
		start, end int
	}{
		{0, 0, 2},
		{2, 0, 2},
		{3, 3, 5},
		{6, 6, 6},
		{7, 7, 9},
		{9, 7, 9},
		{42, 7, 9},
	}
	for _, tt := range tests {
		start, end := b.LineAt(tt.pos)
		assert.Equal(t, tt.start, start, "pos %d", tt.pos)
		assert.Equal(t, tt.end, end, "pos %d", tt.pos)
	}
}

func TestInsertAndDelete(t *testing.T) {
	b := NewBuffer("")
	b.Insert("héllo")
	assert.Equal(t, 5, b.Cursor())

	b.DeleteBackward()
	assert.Equal(t, "héll", b.String())

	b.SetSelection(1, 3)
	b.Insert("e")
	assert.Equal(t, "hel", b.String())
	assert.Equal(t, 2, b.Cursor())

	b.DeleteForward()
	assert.Equal(t, "he", b.String())

	b.SetCursor(0)
	b.DeleteBackward()
	b.SetCursor(2)
	b.DeleteForward()
	assert.Equal(t, "he", b.String())
}

func TestMoves(t *testing.T) {
	b := NewBuffer("first\nab\nthird")
	b.SetCursor(4)

	b.MoveDown()
	assert.Equal(t, 8, b.Cursor())
	b.MoveDown()
	assert.Equal(t, 11, b.Cursor())
	b.MoveUp()
	assert.Equal(t, 8, b.Cursor())
	b.Home()
	assert.Equal(t, 6, b.Cursor())
	b.End()
	assert.Equal(t, 8, b.Cursor())

	line, col := b.CursorPosition()
	assert.Equal(t, 1, line)
	assert.Equal(t, 2, col)

	b.MoveRight(true)
	assert.Equal(t, "\n", b.Selected())
	b.MoveLeft(false)
	assert.Equal(t, 8, b.Cursor())

	b.SetCursor(0)
	b.MoveUp()
	b.MoveLeft(false)
	assert.Equal(t, 0, b.Cursor())
}
