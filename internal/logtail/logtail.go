package logtail

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
)

// Read returns at most maxLines from the end of the file at path. A
// non-positive maxLines returns the whole file. A missing file yields no lines.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer func() { _ = file.Close() }()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Entry is one decoded slog JSON record.
type Entry struct {
	Time    time.Time
	Level   string
	Message string
	Attrs   []Attr
}

// Attr is a non-standard key of a record, rendered as text.
type Attr struct {
	Key   string
	Value string
}

// Parse decodes a slog JSON line. It reports false for anything else.
func Parse(line string) (Entry, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "{") {
		return Entry{}, false
	}
	var raw map[string]any
	if err := json.Unmarshal([]byte(trimmed), &raw); err != nil {
		return Entry{}, false
	}

	var e Entry
	if ts, ok := raw["time"].(string); ok {
		e.Time, _ = time.Parse(time.RFC3339Nano, ts)
	}
	e.Level, _ = raw["level"].(string)
	e.Message, _ = raw["msg"].(string)

	keys := make([]string, 0, len(raw))
	for k := range raw {
		switch k {
		case "time", "level", "msg", "source":
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		e.Attrs = append(e.Attrs, Attr{Key: k, Value: attrString(raw[k])})
	}
	return e, true
}

// Format renders a log line for display: structured records become
// "2006-01-02 15:04:05 LEVEL – message key=value", other lines pass through.
func Format(line string) string {
	e, ok := Parse(line)
	if !ok {
		return line
	}
	ts := "-"
	if !e.Time.IsZero() {
		ts = e.Time.In(time.Local).Format("2006-01-02 15:04:05")
	}
	level := strings.ToUpper(strings.TrimSpace(e.Level))
	if level == "" {
		level = "INFO"
	}

	var b strings.Builder
	b.WriteString(ts)
	b.WriteString(" ")
	b.WriteString(level)
	if msg := strings.TrimSpace(e.Message); msg != "" {
		b.WriteString(" – ")
		b.WriteString(msg)
	}
	for _, a := range e.Attrs {
		b.WriteString(" ")
		b.WriteString(a.Key)
		b.WriteString("=")
		b.WriteString(a.Value)
	}
	return b.String()
}

// FormatLines applies Format to every line.
func FormatLines(lines []string) []string {
	if len(lines) == 0 {
		return nil
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = Format(l)
	}
	return out
}

func attrString(v any) string {
	switch val := v.(type) {
	case string:
		if strings.ContainsAny(val, " \t") {
			return fmt.Sprintf("%q", val)
		}
		return val
	case float64:
		return fmt.Sprintf("%g", val)
	case nil:
		return "null"
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	}
}
