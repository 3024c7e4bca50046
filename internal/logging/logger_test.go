package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintfAppendsTimestampedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "staffdesk.log")
	logger, err := New(path)
	require.NoError(t, err)
	logger.Printf("gateway: GET %s -> %d\n", "/emps/7", 200)
	logger.Printf("second")
	require.NoError(t, logger.Close())
	logger.Printf("after close is dropped")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "["), "missing timestamp in %q", lines[0])
	assert.True(t, strings.HasSuffix(lines[0], "gateway: GET /emps/7 -> 200"), "unexpected first line %q", lines[0])
}
