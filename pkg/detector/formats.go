package detector

import "github.com/datetimeagg/dta/pkg/timestamp"

// TimestampFormat is a known timestamp pattern that can be detected.
type TimestampFormat struct {
	Name      string            // Dictionary key
	Pattern   timestamp.Pattern // Go layout or strftime pattern
	Examples  []string          // Example timestamps
	Ambiguous bool              // True if format has date ordering ambiguity (MM/DD vs DD/MM)
}

func format(name, pattern string, examples ...string) *TimestampFormat {
	return &TimestampFormat{Name: name, Pattern: timestamp.NewPattern(pattern), Examples: examples}
}

// DefaultFormats returns the built-in timestamp formats to detect.
// Formats are ordered by specificity; on equal confidence the earlier
// format wins.
func DefaultFormats() []*TimestampFormat {
	formats := []*TimestampFormat{
		format("iso8601-millis-zone", "2006-01-02T15:04:05.000Z07:00", "2024-01-15T10:30:00.123Z", "2024-01-15T10:30:00.123+02:00"),
		format("iso8601-zone", "2006-01-02T15:04:05Z07:00", "2024-01-15T10:30:00Z", "2024-01-15T10:30:00-05:00"),
		format("iso8601-millis", "2006-01-02T15:04:05.000", "2024-01-15T10:30:00.123"),
		format("iso8601", "2006-01-02T15:04:05", "2024-01-15T10:30:00"),
		format("datetime-zone", "%Y-%m-%d %H:%M:%S %z", "2024-01-15 10:30:00 +0100"),
		format("log4j", "2006-01-02 15:04:05.000", "2024-01-15 10:30:00.123"),
		format("python-logging", "2006-01-02 15:04:05,000", "2024-01-15 10:30:00,123"),
		format("datetime", "2006-01-02 15:04:05", "2024-01-15 10:30:00"),
		format("rfc2822", "Mon, 02 Jan 2006 15:04:05 -0700", "Mon, 15 Jan 2024 10:30:00 +0000"),
		format("apache-clf", "02/Jan/2006:15:04:05 -0700", "15/Jun/2024:10:30:00 +0000"),
		format("apache-error", "Mon Jan 02 15:04:05 2006", "Sun Dec 04 04:47:44 2005"),
		format("syslog-year", "Jan _2 2006 15:04:05", "Jun 14 2024 15:16:01"),
		format("syslog-bsd", "Jan _2 15:04:05", "Jun 14 15:16:01", "Jan  5 09:30:00"),
		format("spark-short", "06/01/02 15:04:05", "17/06/09 20:10:40"),
		format("hdfs-compact", "060102 150405", "081109 203615"),
		format("date", "%Y-%m-%d", "2024-01-15"),
	}

	us := format("us-date", "01/02/2006 15:04:05", "01/15/2024 10:30:00")
	us.Ambiguous = true
	eu := format("eu-date", "%d/%m/%Y %H:%M:%S", "15/01/2024 10:30:00")
	eu.Ambiguous = true

	return append(formats, us, eu)
}
