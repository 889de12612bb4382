package sae

import "strings"

// Token is a whitespace-delimited piece of the input text
type Token struct {
	Text     string
	Position int
}

// Tokenize splits text on runs of whitespace. No normalization is applied.
func Tokenize(text string) []Token {
	fields := strings.Fields(text)
	tokens := make([]Token, len(fields))
	for i, f := range fields {
		tokens[i] = Token{Text: f, Position: i}
	}
	return tokens
}
