package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// promptLine asks for one line of input, writing the prompt to w and
// reading the answer from r. An empty answer falls back to def.
func promptLine(r *bufio.Reader, w io.Writer, label, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(w, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(w, "%s: ", label)
	}

	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading input: %w", err)
	}

	line = strings.TrimSpace(line)
	if line == "" {
		return def, nil
	}
	return line, nil
}

// tickerFromName derives a ticker suggestion from an agent name by
// keeping letters and digits, uppercased and clipped to the registry
// limit. Returns "" when the name yields fewer than two usable runes.
func tickerFromName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(name) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
		if b.Len() >= 11 {
			break
		}
	}
	if b.Len() < 2 {
		return ""
	}
	return b.String()
}
