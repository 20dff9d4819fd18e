package sheet

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/curations/storefront/internal/catalog"
)

// ColumnCategory names the category of each row in a CSV catalog
const ColumnCategory = "category"

// Delimiters tried when sniffing a CSV file, in order of preference
var Delimiters = []rune{',', ';', '\t'}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseCSV extracts one category's records from a CSV catalog.
// The file holds every category; rows are picked by the category column.
func ParseCSV(content []byte, category catalog.Category) ([]catalog.RawProductRecord, error) {
	text := DecodeText(content)

	r := csv.NewReader(strings.NewReader(text))
	r.Comma = DetectDelimiter(text)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	if len(rows) > 0 && !containsHeader(rows[0], ColumnCategory) {
		return nil, fmt.Errorf("csv has no %s column", ColumnCategory)
	}

	return parseRows(rows, "csv", func(cell func(string) string) bool {
		c, ok := catalog.ParseCategory(cell(ColumnCategory))
		return ok && c == category
	})
}

// DecodeText returns content as UTF-8. A BOM is dropped; bytes that are not valid UTF-8
// are read as Windows-1252, the default of spreadsheet CSV exports.
func DecodeText(content []byte) string {
	content = bytes.TrimPrefix(content, utf8BOM)
	if utf8.Valid(content) {
		return string(content)
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(content)
	if err != nil {
		return strings.ToValidUTF8(string(content), "�")
	}
	return string(decoded)
}

// DetectDelimiter picks the delimiter that splits the first lines most consistently
func DetectDelimiter(text string) rune {
	sample := make([]string, 0, 5)
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			sample = append(sample, line)
			if len(sample) == cap(sample) {
				break
			}
		}
	}

	best, bestScore := Delimiters[0], 0.0
	for _, d := range Delimiters {
		total, lines := 0, 0
		first := -1
		for _, line := range sample {
			n := strings.Count(line, string(d))
			if first < 0 {
				first = n
			}
			if n == first {
				lines++
			}
			total += n
		}
		if total == 0 {
			continue
		}
		// average fields per line, weighted by how many lines agree with the header
		score := float64(total) / float64(len(sample)) * float64(lines) / float64(len(sample))
		if score > bestScore {
			best, bestScore = d, score
		}
	}
	return best
}

func containsHeader(header []string, column string) bool {
	want := headerKey(column)
	for _, h := range header {
		if headerKey(h) == want {
			return true
		}
	}
	return false
}
