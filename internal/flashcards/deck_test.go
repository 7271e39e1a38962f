// internal/flashcards/deck_test.go
package flashcards

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDeck(t *testing.T) {
	input := strings.Join([]string{
		"front,back",
		"dog,Hund",
		"cat,Katze",
		"incomplete",
		"bird,Vogel,ignored extra",
	}, "\n")

	cards, err := ParseDeck(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []Card{
		{Front: "dog", Back: "Hund"},
		{Front: "cat", Back: "Katze"},
		{Front: "bird", Back: "Vogel"},
	}, cards)
}

func TestParseDeck_HeaderOnly(t *testing.T) {
	cards, err := ParseDeck(strings.NewReader("front,back\n"))
	require.NoError(t, err)
	assert.Empty(t, cards)

	cards, err = ParseDeck(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, cards)
}

func TestParseDeck_MalformedCSV(t *testing.T) {
	input := "front,back\nbad\"quote,value\n"

	_, err := ParseDeck(strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading deck")
}

func TestLoadDeck(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deck.csv")
	content := "front,back\nhello,bonjour\nworld,monde\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cards, err := LoadDeck(path)
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, Card{Front: "hello", Back: "bonjour"}, cards[0])
}

func TestLoadDeck_MissingFile(t *testing.T) {
	_, err := LoadDeck(filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening deck")
}
