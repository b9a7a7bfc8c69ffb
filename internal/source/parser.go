package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/soiree/internal/model"
	"github.com/theirongolddev/soiree/internal/ticket"
)

// ParseResult holds the output of parsing a record file.
type ParseResult struct {
	Records model.RecordSet
	// Rederived counts rows whose stored ticket differed from the recomputed one.
	Rederived int
}

// Parse reads a record file. The header row decides column order; a file
// without a recognizable header is rejected. Every row must parse: a
// malformed row aborts the load rather than being dropped, since the next
// persist would otherwise erase it.
func Parse(r io.Reader, mode ticket.Rounding) (ParseResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return ParseResult{Records: model.RecordSet{}}, nil
	}
	if err != nil {
		return ParseResult{}, fmt.Errorf("reading header: %w", err)
	}

	cols, err := columnIndex(header)
	if err != nil {
		return ParseResult{}, err
	}

	result := ParseResult{Records: model.RecordSet{}}
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return ParseResult{}, err
		}
		line, _ := cr.FieldPos(0)
		if isBlank(row) {
			continue
		}

		rec, stored, err := parseRow(row, cols)
		if err != nil {
			return ParseResult{}, fmt.Errorf("line %d: %w", line, err)
		}
		rec, err = ticket.Rederive(mode, rec)
		if err != nil {
			return ParseResult{}, fmt.Errorf("line %d: %w", line, err)
		}
		if stored != nil && !stored.Equal(rec.AverageTicket) {
			result.Rederived++
		}
		result.Records = append(result.Records, rec)
	}

	return result, nil
}

// columnIndex maps each canonical column to its position in header.
// The ticket column is optional since it is always recomputed.
func columnIndex(header []string) ([numCols]int, error) {
	var cols [numCols]int
	for i := range cols {
		cols[i] = -1
	}
	for pos, h := range header {
		if c, ok := headerAliases[normalizeHeader(h)]; ok && cols[c] < 0 {
			cols[c] = pos
		}
	}
	for _, c := range []int{colDate, colParticipants, colRevenue} {
		if cols[c] < 0 {
			return cols, fmt.Errorf("missing %q column in header %q", Header[c], strings.Join(header, ","))
		}
	}
	return cols, nil
}

var maxParticipants = decimal.NewFromInt(math.MaxInt32)

func parseRow(row []string, cols [numCols]int) (model.EventRecord, *decimal.Decimal, error) {
	var rec model.EventRecord

	field := func(c int) string {
		if cols[c] < 0 || cols[c] >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[cols[c]])
	}

	date, err := parseDate(field(colDate))
	if err != nil {
		return rec, nil, err
	}
	rec.Date = date

	p, err := decimal.NewFromString(field(colParticipants))
	if err != nil || !p.IsInteger() {
		return rec, nil, fmt.Errorf("bad participants %q", field(colParticipants))
	}
	if p.GreaterThan(maxParticipants) {
		return rec, nil, fmt.Errorf("participants %s out of range", p)
	}
	rec.Participants = int(p.IntPart())

	rec.Revenue, err = decimal.NewFromString(field(colRevenue))
	if err != nil {
		return rec, nil, fmt.Errorf("bad revenue %q", field(colRevenue))
	}

	var stored *decimal.Decimal
	if s := field(colTicket); s != "" {
		if d, err := decimal.NewFromString(s); err == nil {
			stored = &d
		}
	}

	return rec, stored, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return model.Date(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("bad date %q", s)
}

func isBlank(row []string) bool {
	for _, f := range row {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// formatRevenue writes cent amounts with two digits and keeps any finer
// precision a hand-written file carried, so a load/persist cycle is lossless.
func formatRevenue(d decimal.Decimal) string {
	if d.Equal(d.Round(2)) {
		return d.StringFixed(2)
	}
	return d.String()
}

// Encode writes the header and every record in order.
func Encode(w io.Writer, set model.RecordSet) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range set {
		row := []string{
			r.Date.Format(model.DateLayout),
			strconv.Itoa(r.Participants),
			formatRevenue(r.Revenue),
			r.AverageTicket.StringFixed(ticket.Places),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
