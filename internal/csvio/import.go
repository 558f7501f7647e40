// Package csvio reads and writes the CSV interchange format for transactions
// and the other tracked entities.
package csvio

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Tijigui/fintrack/internal/core"
)

// ImportedRow is one parsed statement line. Amount is the magnitude, the
// sign of the source value decides the type.
type ImportedRow struct {
	Date        time.Time
	Description string
	Amount      core.Money
	Type        core.TransactionType
}

// Summary counts the outcome of an import.
type Summary struct {
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

var dateLayouts = []string{"2006-01-02", "02/01/2006", "01/02/2006", "2006/01/02"}

func parseRowDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return core.DateOnly(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// sniffDelimiter picks semicolon when the first line carries more semicolons
// than commas. Bank exports disagree on this.
func sniffDelimiter(firstLine string) rune {
	if strings.Count(firstLine, ";") > strings.Count(firstLine, ",") {
		return ';'
	}
	return ','
}

var headerTokens = map[string]bool{"date": true, "data": true, "datum": true}

// looksLikeHeader matches the date-column labels bank exports use. Any other
// first row is data and goes through normal parsing, malformed or not.
func looksLikeHeader(fields []string) bool {
	if len(fields) == 0 {
		return false
	}
	return headerTokens[strings.ToLower(strings.TrimSpace(fields[0]))]
}

// ParseTransactions reads statement rows of at least (date, description,
// amount). Malformed rows are skipped and counted, never fatal; only an
// unreadable stream returns an error.
func ParseTransactions(r io.Reader) ([]ImportedRow, int, error) {
	br := bufio.NewReader(r)
	if bom, err := br.Peek(3); err == nil && string(bom) == "\ufeff" {
		br.Discard(3)
	}
	first, err := br.Peek(512)
	if err != nil && err != io.EOF {
		return nil, 0, fmt.Errorf("read input: %w", err)
	}
	line := string(first)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}

	reader := csv.NewReader(br)
	reader.Comma = sniffDelimiter(line)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var rows []ImportedRow
	skipped := 0
	firstRecord := true
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}
		if firstRecord {
			firstRecord = false
			if looksLikeHeader(record) {
				continue
			}
		}

		row, ok := parseRecord(record)
		if !ok {
			skipped++
			continue
		}
		rows = append(rows, row)
	}
	return rows, skipped, nil
}

func parseRecord(record []string) (ImportedRow, bool) {
	if len(record) < 3 {
		return ImportedRow{}, false
	}

	date, err := parseRowDate(record[0])
	if err != nil {
		return ImportedRow{}, false
	}

	description := strings.TrimSpace(record[1])
	if description == "" {
		return ImportedRow{}, false
	}

	amount, negative, err := core.ParseSignedAmount(strings.TrimSpace(record[2]))
	if err != nil {
		return ImportedRow{}, false
	}

	row := ImportedRow{
		Date:        date,
		Description: description,
		Amount:      amount,
		Type:        core.Income,
	}
	if negative {
		row.Type = core.Expense
	}
	return row, true
}
