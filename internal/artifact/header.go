package artifact

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

var (
	// ErrMissingHeader indicates the snippet did not start with the comment header.
	ErrMissingHeader = errors.New("artifact: missing comment header")
	// ErrMalformedHeader indicates the comment header could not be parsed.
	ErrMalformedHeader = errors.New("artifact: malformed comment header")
)

const headerPrefix = "c mcnpath artifact: "

// WriteHeader renders metadata as MCNP `c` comment lines followed by the
// body. The header is legal to paste into a deck alongside the cards.
func WriteHeader(meta Metadata, body []byte) ([]byte, error) {
	if meta.ArtifactID == "" {
		return nil, fmt.Errorf("artifact: metadata missing artifact id")
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s%s\n", headerPrefix, meta.ArtifactID)
	if meta.Title != "" {
		fmt.Fprintf(&buf, "c title: %s\n", meta.Title)
	}
	fmt.Fprintf(&buf, "c created: %s\n", meta.CreatedAt.UTC().Format(timeLayout))
	keys := make([]string, 0, len(meta.Notes))
	for k := range meta.Notes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&buf, "c note %s: %s\n", k, meta.Notes[k])
	}
	buf.WriteString("c\n")
	buf.Write(body)
	return buf.Bytes(), nil
}

// ParseHeader extracts the metadata block and body from a snippet that
// starts with the `c` comment header WriteHeader produces.
func ParseHeader(content []byte) (Metadata, []byte, error) {
	if len(content) == 0 {
		return Metadata{}, nil, ErrMissingHeader
	}
	normalized := normalizeNewlines(content)
	lines := strings.Split(string(normalized), "\n")
	if !strings.HasPrefix(lines[0], headerPrefix) {
		return Metadata{}, nil, ErrMissingHeader
	}
	meta := Metadata{ArtifactID: strings.TrimSpace(strings.TrimPrefix(lines[0], headerPrefix))}
	if meta.ArtifactID == "" {
		return Metadata{}, nil, ErrMalformedHeader
	}
	var created string
	idx := 1
	for ; idx < len(lines); idx++ {
		line := lines[idx]
		if line == "c" {
			idx++
			break
		}
		switch {
		case strings.HasPrefix(line, "c title: "):
			meta.Title = strings.TrimPrefix(line, "c title: ")
		case strings.HasPrefix(line, "c created: "):
			created = strings.TrimPrefix(line, "c created: ")
		case strings.HasPrefix(line, "c note "):
			rest := strings.TrimPrefix(line, "c note ")
			key, value, ok := strings.Cut(rest, ": ")
			if !ok || key == "" {
				return Metadata{}, nil, ErrMalformedHeader
			}
			if meta.Notes == nil {
				meta.Notes = map[string]string{}
			}
			meta.Notes[key] = value
		default:
			return Metadata{}, nil, ErrMalformedHeader
		}
	}
	parsed, err := parseTime(created)
	if err != nil {
		return Metadata{}, nil, fmt.Errorf("artifact: parse created timestamp: %w", err)
	}
	meta.CreatedAt = parsed
	body := []byte(strings.Join(lines[idx:], "\n"))
	return meta, body, nil
}

const timeLayout = "2006-01-02T15:04:05Z07:00"

func parseTime(value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, fmt.Errorf("artifact: empty created timestamp")
	}
	t, err := time.Parse(timeLayout, value)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func normalizeNewlines(content []byte) []byte {
	return bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
}
