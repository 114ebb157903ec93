package services

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// TokenCounter estimates the number of tokens in a text.
type TokenCounter interface {
	Count(text string) int
}

// TiktokenCounter counts tokens with a BPE encoding.
type TiktokenCounter struct {
	enc *tiktoken.Tiktoken
}

// NewTiktokenCounter loads the named encoding, e.g. "cl100k_base".
func NewTiktokenCounter(encoding string) (*TiktokenCounter, error) {
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to load tiktoken encoding %s: %w", encoding, err)
	}
	return &TiktokenCounter{enc: enc}, nil
}

func (c *TiktokenCounter) Count(text string) int {
	if text == "" {
		return 0
	}
	return len(c.enc.Encode(text, nil, nil))
}
