package logbook

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTailReturnsRecentLinesAndTotal(t *testing.T) {
	book, err := New(filepath.Join(t.TempDir(), "journal.log"))
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		book.Info("entry-%d", i)
	}
	lines, total := book.Tail(3)
	assert.Equal(t, 5, total)
	require.Len(t, lines, 3)
	for idx, want := range []string{"entry-2", "entry-3", "entry-4"} {
		assert.Contains(t, lines[idx], want)
	}
}

func TestAppendFoldsMultilineMessages(t *testing.T) {
	book, err := New(filepath.Join(t.TempDir(), "logs", "journal.log"))
	require.NoError(t, err)
	book.Error("load failed:\n  status 401")
	book.Warn("   ")
	lines, total := book.Tail(10)
	assert.Equal(t, 1, total, "blank entries are dropped")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "ERROR load failed: status 401")
}

func TestNilLogbookIsSafe(t *testing.T) {
	var book *Logbook
	book.Info("ignored")
	lines, total := book.Tail(3)
	assert.Nil(t, lines)
	assert.Zero(t, total)
}
