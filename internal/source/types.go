// Package source reads and writes the tabular record file (CSV).
package source

import (
	"strings"
	"time"
)

// Canonical column order of the record file.
const (
	colDate = iota
	colParticipants
	colRevenue
	colTicket
	numCols
)

// Header is the header row written on persist. The French names match files
// produced by earlier versions of the tracker.
var Header = []string{"Date", "Participants", "Recette", "Ticket Moyen"}

// headerAliases maps normalized header names to their column.
var headerAliases = map[string]int{
	"date":           colDate,
	"participants":   colParticipants,
	"recette":        colRevenue,
	"revenue":        colRevenue,
	"ticket moyen":   colTicket,
	"ticketmoyen":    colTicket,
	"average ticket": colTicket,
	"averageticket":  colTicket,
}

// FileInfo identifies a version of the record file on disk.
type FileInfo struct {
	MtimeNs   int64
	SizeBytes int64
}

// Changed reports whether fi describes a different file version than other.
func (fi FileInfo) Changed(other FileInfo) bool {
	return fi.MtimeNs != other.MtimeNs || fi.SizeBytes != other.SizeBytes
}

func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	return strings.ToLower(strings.TrimSpace(h))
}

// dateLayouts are accepted when reading. Older files may carry a time part.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}
