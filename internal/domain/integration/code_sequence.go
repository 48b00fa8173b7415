package integration

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CodeFormat describes how remote entity codes are built: a fixed prefix
// followed by a zero-padded sequence number.
type CodeFormat struct {
	Prefix string
	Width  int
}

// Format renders the code for sequence number seq.
func (f CodeFormat) Format(seq int64) string {
	width := f.Width
	if width <= 0 {
		width = 4
	}
	return fmt.Sprintf("%s%0*d", f.Prefix, width, seq)
}

// Next renders the code following the current maximum. A nil max means no
// code with this prefix exists yet.
func (f CodeFormat) Next(currentMax *int64) string {
	return f.Format(nextSequence(currentMax))
}

// LikePattern returns the SQL LIKE pattern matching codes of this format.
func (f CodeFormat) LikePattern() string {
	return PrefixPattern(f.Prefix)
}

// LikeEscapeChar is the ESCAPE character PrefixPattern escapes with.
const LikeEscapeChar = `\`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// PrefixPattern returns a LIKE pattern matching strings that start with
// prefix literally. Queries must declare ESCAPE '\'; without it the
// underscore in TEST_ would match any character.
func PrefixPattern(prefix string) string {
	return likeEscaper.Replace(prefix) + "%"
}

// SequenceStart is the 1-based SUBSTRING start of the numeric part.
func (f CodeFormat) SequenceStart() int {
	return len(f.Prefix) + 1
}

// OrderNumberFormat builds ERP sales order numbers: a literal, the four
// digit year and two digit month, then an unpadded running number.
type OrderNumberFormat struct {
	Literal string
}

// MonthPrefix returns the prefix shared by all order numbers of now's month.
func (f OrderNumberFormat) MonthPrefix(now time.Time) string {
	return f.Literal + now.Format("200601")
}

// Next renders the order number following the current maximum suffix.
func (f OrderNumberFormat) Next(monthPrefix string, currentMax *int64) string {
	return monthPrefix + strconv.FormatInt(nextSequence(currentMax), 10)
}

// SuffixStart is the 1-based SUBSTRING start of the running number.
func (f OrderNumberFormat) SuffixStart(monthPrefix string) int {
	return len(monthPrefix) + 1
}

func nextSequence(currentMax *int64) int64 {
	if currentMax == nil || *currentMax < 0 {
		return 1
	}
	return *currentMax + 1
}
