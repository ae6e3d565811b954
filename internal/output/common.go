package output

import (
	"io"
	"os"
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

const reportDateTimeLayout = "2006-01-02T15:04:05"

func openOutputWriter(outputPath string) (io.Writer, *os.File, error) {
	if outputPath == "" {
		return os.Stdout, nil, nil
	}
	file, err := os.Create(outputPath)
	if err != nil {
		return nil, nil, err
	}
	return file, file, nil
}

func formatGeneratedAt(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.Format(reportDateTimeLayout)
}

// sortedKeys returns the keys of attrs in lexical order so output is stable.
func sortedKeys(attrs Attrs) []string {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// truncateMessage shortens msg to maxLen runes, ending in "...".
func truncateMessage(msg string, maxLen int) string {
	if utf8.RuneCountInString(msg) <= maxLen {
		return msg
	}
	runes := []rune(msg)
	return string(runes[:maxLen-3]) + "..."
}

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// escapeHTML escapes the characters graphviz rejects inside HTML-like labels.
func escapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}
