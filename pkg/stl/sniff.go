package stl

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// textKeyword opens every text stl file
const textKeyword = "solid"

// HasTextFormat reports whether the file at path starts with the keyword
// "solid" (case-insensitive) and should therefore be decoded as text.
//
// This is a heuristic: a binary file whose 80-byte header happens to begin
// with "solid" is classified as text.
func HasTextFormat(path string) (bool, error) {
	file, err := os.Open(path)
	if err != nil {
		return false, openError(path, err)
	}
	defer file.Close()

	isText, err := hasTextFormat(file)
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return isText, nil
}

// hasTextFormat reads the first whitespace-delimited word of r. It never
// reads further than one byte past the length of the keyword.
func hasTextFormat(r io.Reader) (bool, error) {
	br := bufio.NewReaderSize(r, 64)
	word := make([]byte, 0, len(textKeyword)+1)

	for {
		b, err := br.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return false, err
		}

		if isSpace(b) {
			if len(word) > 0 {
				break
			}
			continue
		}

		word = append(word, b)
		if len(word) > len(textKeyword) {
			return false, nil
		}
	}

	return strings.ToLower(string(word)) == textKeyword, nil
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
