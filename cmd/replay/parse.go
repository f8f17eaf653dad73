package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/rl1809/stock-tally/internal/core/domain"
)

// readSubmissions parses "name,quantity" lines. Blank lines and lines starting
// with '#' are skipped. The quantity is taken after the last comma so product
// names may contain commas.
func readSubmissions(r io.Reader) ([]domain.Submission, error) {
	var subs []domain.Submission

	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		i := strings.LastIndex(text, ",")
		if i < 0 {
			return nil, fmt.Errorf("line %d: expected name,quantity", line)
		}
		subs = append(subs, domain.Submission{
			Product:  strings.TrimSpace(text[:i]),
			Quantity: strings.TrimSpace(text[i+1:]),
		})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return subs, nil
}
