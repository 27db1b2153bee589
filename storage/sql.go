package storage

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// dialect captures what differs between the supported databases.
type dialect struct {
	name      string
	schema    []string
	numbered  bool // $1, $2 placeholders instead of ?
	textTimes bool // times are bound as sortable text
}

// sqliteTimeFormat is fixed width so that text ordering matches time ordering.
const sqliteTimeFormat = "2006-01-02 15:04:05.000"

func (d dialect) rebind(q string) string {
	if !d.numbered {
		return q
	}
	var b strings.Builder
	b.Grow(len(q) + 8)
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (d dialect) timeArg(t time.Time) any {
	if d.textTimes {
		return t.UTC().Format(sqliteTimeFormat)
	}
	return t.UTC()
}

var timeLayouts = []string{
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// nullTime scans the various shapes a timestamp comes back in: native
// time.Time, text in several layouts, or unix seconds.
type nullTime struct {
	Time  time.Time
	Valid bool
}

func (n *nullTime) Scan(v any) error {
	switch x := v.(type) {
	case nil:
		n.Time, n.Valid = time.Time{}, false
		return nil
	case time.Time:
		n.Time, n.Valid = x, true
		return nil
	case int64:
		n.Time, n.Valid = time.Unix(x, 0).UTC(), true
		return nil
	case []byte:
		return n.parse(string(x))
	case string:
		return n.parse(x)
	default:
		return fmt.Errorf("cannot scan %T into timestamp", v)
	}
}

func (n *nullTime) parse(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		n.Time, n.Valid = time.Time{}, false
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			n.Time, n.Valid = t, true
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}

func (n nullTime) ptr() *time.Time {
	if !n.Valid {
		return nil
	}
	t := n.Time
	return &t
}
