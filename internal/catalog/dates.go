package catalog

import (
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// houseDateLayouts covers the formats observed on the House archive page.
// Listing text is free-form and has changed over the years.
var houseDateLayouts = []string{
	"1/2/2006",
	"01/02/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"Monday, January 2, 2006",
	"2006-01-02",
}

// NormalizeHouseDate parses a raw listing date into YYYY-MM-DD. Unparseable
// values pass through unchanged so the item still carries something
// human-readable; this never fails.
func NormalizeHouseDate(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return DateUnknown
	}
	for _, layout := range houseDateLayouts {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return parsed.Format("2006-01-02")
		}
	}
	return trimmed
}

var filenameDatePattern = regexp.MustCompile(`(\d{2})-(\d{2})-(\d{2})`)

// RecordingDateFromFilename extracts a YY-MM-DD pattern embedded in a
// Senate filename and expands it to YYYY-MM-DD. Missing or invalid dates
// yield DateUnknown.
func RecordingDateFromFilename(filename string) string {
	match := filenameDatePattern.FindStringSubmatch(filename)
	if match == nil {
		return DateUnknown
	}
	parsed, err := time.Parse("06-01-02", match[1]+"-"+match[2]+"-"+match[3])
	if err != nil {
		return DateUnknown
	}
	return parsed.Format("2006-01-02")
}

// NormalizeUploadTimestamp converts an ISO-8601 upload timestamp (with an
// optional trailing zone marker) to YYYY-MM-DD, passing the raw value
// through when it does not parse.
func NormalizeUploadTimestamp(raw string) string {
	trimmed := strings.TrimSuffix(strings.TrimSpace(raw), "Z")
	if trimmed == "" {
		return raw
	}
	for _, layout := range []string{"2006-01-02T15:04:05.999999999", "2006-01-02T15:04:05", "2006-01-02"} {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return parsed.Format("2006-01-02")
		}
	}
	return raw
}

var committeeCaser = cases.Title(language.AmericanEnglish)

// NormalizeCommittee cleans a committee heading. All-caps headings from the
// House listing are title-cased; mixed-case values are preserved as-is.
func NormalizeCommittee(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "Unknown Committee"
	}
	if trimmed == strings.ToUpper(trimmed) && trimmed != strings.ToLower(trimmed) {
		return committeeCaser.String(strings.ToLower(trimmed))
	}
	return trimmed
}
