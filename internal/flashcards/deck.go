// internal/flashcards/deck.go
package flashcards

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
)

// Card is one two-sided study card.
type Card struct {
	Front string
	Back  string
}

// ParseDeck reads cards from CSV data. The first record is treated as a
// header row and skipped. Records need at least two fields (front, back);
// shorter ones are skipped, extra fields are ignored.
func ParseDeck(r io.Reader) ([]Card, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header := true
	var cards []Card
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("flashcards: reading deck: %w", err)
		}
		if header {
			header = false
			continue
		}
		if len(record) < 2 {
			continue
		}
		cards = append(cards, Card{Front: record[0], Back: record[1]})
	}
	return cards, nil
}

// LoadDeck reads a deck from a CSV file.
func LoadDeck(path string) ([]Card, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("flashcards: opening deck: %w", err)
	}
	defer f.Close()

	return ParseDeck(f)
}
