// File: cmd/flashcards_test.go
package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeDeckCSV writes a header row plus count front/back rows.
func writeDeckCSV(t *testing.T, path string, count int) {
	t.Helper()
	var sb strings.Builder
	sb.WriteString("front,back\n")
	for i := 1; i <= count; i++ {
		fmt.Fprintf(&sb, "question %d,answer %d\n", i, i)
	}
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0o644))
}

func TestFlashcardsCommand_EndToEnd(t *testing.T) {
	resetTestState(t)

	dir := t.TempDir()
	deck := filepath.Join(dir, "deck.csv")
	writeDeckCSV(t, deck, 4)

	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"flashcards", deck, "--rows", "2", "--columns", "2"})

	require.NoError(t, root.ExecuteContext(context.Background()))

	// Four cards fit one 2x2 page, so one front page plus one back page.
	output := filepath.Join(dir, "deck-cards.pdf")
	assert.Equal(t, 2, countPages(t, output))
}

func TestFlashcardsCommand_OutputFlagAndCardSize(t *testing.T) {
	resetTestState(t)

	dir := t.TempDir()
	deck := filepath.Join(dir, "deck.csv")
	writeDeckCSV(t, deck, 7)
	output := filepath.Join(dir, "printable.pdf")

	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{
		"flashcards", deck,
		"-o", output,
		"--card-width-in", "2",
		"--card-height-in", "3",
	})

	require.NoError(t, root.ExecuteContext(context.Background()))

	// Seven cards on the default 2x3 grid need two duplex sheets.
	assert.Equal(t, 4, countPages(t, output))
}

func TestFlashcardsCommand_RequiresDeckArg(t *testing.T) {
	resetTestState(t)

	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"flashcards"})

	err := root.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestFlashcardsCommand_MissingDeckFile(t *testing.T) {
	resetTestState(t)

	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"flashcards", filepath.Join(t.TempDir(), "absent.csv")})

	err := root.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening deck")
}
