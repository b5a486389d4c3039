package transfer

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/aliaskeeper/internal/client/models"
	"github.com/dmitrijs2005/aliaskeeper/internal/common"
)

// FormatError explains why a payload was rejected. It matches
// common.ErrImportFormat.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string { return "CSV parsing error: " + e.Reason }

func (e *FormatError) Unwrap() error { return common.ErrImportFormat }

var errNotDocument = errors.New("missing or invalid addresses array")

// Parse reads text as a JSON export and, failing that, as CSV. The returned
// entries have the domain suffix removed and are not yet tagged with an
// owner. A JSON document with an empty addresses array yields no entries
// and no error.
func Parse(text, domain string, now time.Time) ([]models.StoredAddress, error) {
	if list, err := parseJSON(text, domain, now); err == nil {
		return list, nil
	}
	return parseCSV(text, domain, now)
}

func parseJSON(text, domain string, now time.Time) ([]models.StoredAddress, error) {
	var doc struct {
		Addresses *[]jsonEntry `json:"addresses"`
	}
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return nil, err
	}
	if doc.Addresses == nil {
		return nil, errNotDocument
	}

	out := make([]models.StoredAddress, 0, len(*doc.Addresses))
	for _, e := range *doc.Addresses {
		value, ok := e.Value.(string)
		if !ok || value == "" {
			continue
		}
		notes, _ := e.Notes.(string)
		out = append(out, models.StoredAddress{
			Value:     localPart(value, domain),
			CreatedAt: jsonTimestamp(e.Timestamp, now),
			Notes:     notes,
		})
	}
	return out, nil
}

// jsonEntry is decoded loosely so one odd entry cannot reject the document.
type jsonEntry struct {
	Value     any
	Timestamp json.Number
	Notes     any
}

func (e *jsonEntry) UnmarshalJSON(b []byte) error {
	var raw struct {
		Value     any             `json:"value"`
		Timestamp json.RawMessage `json:"timestamp"`
		Notes     any             `json:"notes"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		// Not an object: dropped like an entry without a value.
		*e = jsonEntry{}
		return nil
	}
	e.Value, e.Notes = raw.Value, raw.Notes
	var n json.Number
	if json.Unmarshal(raw.Timestamp, &n) == nil {
		e.Timestamp = n
	}
	return nil
}

// jsonTimestamp truncates numeric timestamps to whole milliseconds. Missing,
// zero, negative or non-numeric values mean now.
func jsonTimestamp(n json.Number, now time.Time) int64 {
	if n == "" {
		return now.UnixMilli()
	}
	if ms, err := n.Int64(); err == nil {
		if ms > 0 {
			return ms
		}
		return now.UnixMilli()
	}
	f, err := n.Float64()
	if err != nil || f < 1 || f >= math.MaxInt64 {
		return now.UnixMilli()
	}
	return int64(f)
}

func parseCSV(text, domain string, now time.Time) ([]models.StoredAddress, error) {
	lines := strings.Split(text, "\n")
	if len(lines) <= 1 {
		return nil, &FormatError{Reason: "CSV file must contain at least a header row and one data row"}
	}

	header := -1
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		if strings.Contains(line, "Address") &&
			(strings.Contains(line, "Timestamp") || strings.Contains(line, "Created Date")) {
			header = i
			break
		}
	}
	if header < 0 {
		return nil, &FormatError{Reason: "Could not find valid CSV header row with Address and Timestamp columns"}
	}

	var out []models.StoredAddress
	for _, line := range lines[header+1:] {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := splitCSVLine(line)

		address := strings.TrimSpace(fields[0])
		if address == "" {
			continue
		}
		a := models.StoredAddress{
			Value:     localPart(address, domain),
			CreatedAt: now.UnixMilli(),
		}
		if len(fields) > 1 && fields[1] != "" {
			a.CreatedAt = parseTimestamp(strings.TrimSpace(fields[1]), now)
		}
		if len(fields) > 2 {
			a.Notes = strings.TrimSuffix(strings.TrimPrefix(fields[2], `"`), `"`)
		}
		out = append(out, a)
	}

	if len(out) == 0 {
		return nil, &FormatError{Reason: "No valid addresses found in the CSV file"}
	}
	return out, nil
}

// splitCSVLine splits on commas outside quotes. Quotes delimit fields and
// are dropped; "" inside a quoted field is a literal quote.
func splitCSVLine(line string) []string {
	var (
		fields   []string
		cur      strings.Builder
		inQuotes bool
	)
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"' && inQuotes && i+1 < len(line) && line[i+1] == '"':
			cur.WriteByte('"')
			i++
		case c == '"':
			inQuotes = !inQuotes
		case c == ',' && !inQuotes:
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	return append(fields, cur.String())
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"1/2/2006, 3:04:05 PM",
	"1/2/2006 15:04:05",
	"1/2/2006",
	time.RFC1123Z,
	time.RFC1123,
	"Jan 2, 2006",
	"January 2, 2006",
}

// parseTimestamp accepts epoch milliseconds or a date string; anything else
// falls back to now.
func parseTimestamp(s string, now time.Time) int64 {
	if isDigits(s) {
		if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
			return ms
		}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UnixMilli()
		}
	}
	return now.UnixMilli()
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// localPart strips a "@domain" suffix; other values are kept as they are.
func localPart(address, domain string) string {
	if !strings.Contains(address, "@"+domain) {
		return address
	}
	local, _, _ := strings.Cut(address, "@")
	return local
}
