// Package envelope extracts session identifiers from automation webhook responses.
//
// The upstream automation platform wraps its output in a single-element JSON
// array whose "body" field is itself a JSON-encoded string, and that inner
// document is known to occasionally carry stray doubled quote characters
// before closing braces or line terminators. Repair handles exactly those two
// patterns; anything else that fails to parse after repair is a hard error.
package envelope

import (
	"bytes"
	"encoding/json"
	"errors"
	"regexp"
)

// Sentinel errors for envelope parsing.
var (
	ErrEmptyEnvelope = errors.New("response envelope is empty")
	ErrNoSessionID   = errors.New("no session identifier in response")
)

// Session identifier keys checked in priority order.
var sessionKeys = []string{"SessionId", "sessionId", "session_id", "id"}

var (
	// A string value terminated by a doubled quote at end of line: `"x""\n`.
	strayQuoteEOL = regexp.MustCompile(`([^"\\\s:,{\[])""[ \t]*(\r?\n)`)
	// A string value terminated by a doubled quote before a closing brace
	// or bracket: `"x""}`. The leading character class keeps legitimate
	// empty strings (`: ""}`) and escaped closing quotes (`\""}`) untouched.
	strayQuoteClose = regexp.MustCompile(`([^"\\\s:,{\[])""[ \t]*([}\]])`)

	sessionPattern = regexp.MustCompile(`"SessionId":\s*"([^"]+)"`)
)

// SessionID extracts the session identifier from a raw webhook response body.
//
// When the top-level value is a non-empty array, the first element's "body"
// string is repaired and parsed as JSON, and the identifier is looked up under
// SessionId, sessionId, session_id, and id, in that order. A body that still
// fails to parse after repair falls back to direct pattern extraction. A
// non-array top level is searched for the same keys directly. When no method
// yields an identifier, ErrNoSessionID is returned; callers must treat that
// as a failed submission rather than synthesizing an identifier.
func SessionID(body []byte) (string, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return "", ErrEmptyEnvelope
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(trimmed, &elements); err != nil {
		return fromObject(trimmed)
	}

	if len(elements) == 0 {
		return "", ErrEmptyEnvelope
	}

	var elem struct {
		Body string `json:"body"`
	}
	if err := json.Unmarshal(elements[0], &elem); err != nil || elem.Body == "" {
		return fromObject(elements[0])
	}

	return fromBody(elem.Body)
}

// Repair collapses the two known stray-quote emission patterns. It is
// idempotent and leaves well-formed JSON unchanged.
func Repair(s string) string {
	s = strayQuoteEOL.ReplaceAllString(s, `${1}"${2}`)
	return strayQuoteClose.ReplaceAllString(s, `${1}"${2}`)
}

func fromBody(raw string) (string, error) {
	var fields map[string]any
	if err := json.Unmarshal([]byte(Repair(raw)), &fields); err != nil {
		if m := sessionPattern.FindStringSubmatch(raw); m != nil {
			return m[1], nil
		}
		return "", ErrNoSessionID
	}

	return lookup(fields)
}

func fromObject(raw []byte) (string, error) {
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return "", ErrNoSessionID
	}

	return lookup(fields)
}

func lookup(fields map[string]any) (string, error) {
	for _, key := range sessionKeys {
		if v, ok := fields[key].(string); ok && v != "" {
			return v, nil
		}
	}
	return "", ErrNoSessionID
}
