package labs

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// OutcomeKind tags the result of looking for lab data in vendor text.
type OutcomeKind string

const (
	// OutcomeParsed means a JSON object was found and decoded.
	OutcomeParsed OutcomeKind = "parsed"
	// OutcomeNotFound means the text holds no JSON object at all.
	OutcomeNotFound OutcomeKind = "not_found"
	// OutcomeMalformed means an object was found but could not be used.
	OutcomeMalformed OutcomeKind = "malformed"
)

// Outcome is the result of Extract. Labs is only non-empty for
// OutcomeParsed; Reason is only set for OutcomeMalformed.
type Outcome struct {
	Kind   OutcomeKind
	Labs   []Measurement
	Reason string
}

// ResponseField is the vendor field that carries free text.
const ResponseField = "response"

var errUnbalanced = errors.New("unbalanced braces: object is never closed")

// labPayloadSchema constrains the fields the annotator and summary read.
// A payload without "labs" is valid and yields no measurements.
const labPayloadSchema = `{
	"type": "object",
	"properties": {
		"labs": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["test", "value", "unit"],
				"properties": {
					"test": {"type": "string"},
					"value": {"type": "number"},
					"unit": {"type": "string"}
				}
			}
		}
	}
}`

var compiledPayloadSchema = jsonschema.MustCompileString("lab_payload.json", labPayloadSchema)

// ExtractFromResponse looks up the free-text response field in a decoded
// vendor body and extracts labs from it.
func ExtractFromResponse(raw map[string]any) Outcome {
	text, ok := raw[ResponseField].(string)
	if !ok {
		return Outcome{Kind: OutcomeNotFound, Labs: []Measurement{}}
	}
	return Extract(text)
}

// Extract finds the first balanced JSON object embedded in text (for
// example inside a fenced code block) and decodes its labs array.
// Later brace-delimited fragments in the text are ignored.
func Extract(text string) Outcome {
	span, found, err := firstObject(text)
	if !found {
		return Outcome{Kind: OutcomeNotFound, Labs: []Measurement{}}
	}
	if err != nil {
		return malformed(err)
	}

	var doc any
	dec := json.NewDecoder(strings.NewReader(span))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return malformed(fmt.Errorf("invalid JSON: %w", err))
	}
	if err := compiledPayloadSchema.Validate(doc); err != nil {
		return malformed(fmt.Errorf("unexpected payload shape: %w", err))
	}

	var p payload
	if err := json.Unmarshal([]byte(span), &p); err != nil {
		return malformed(fmt.Errorf("failed to decode labs: %w", err))
	}

	measurements := make([]Measurement, 0, len(p.Labs))
	for _, item := range p.Labs {
		measurements = append(measurements, Measurement{
			Test:  item.Test,
			Value: item.Value,
			Unit:  item.Unit,
		})
	}
	return Outcome{Kind: OutcomeParsed, Labs: measurements}
}

func malformed(err error) Outcome {
	return Outcome{Kind: OutcomeMalformed, Labs: []Measurement{}, Reason: err.Error()}
}

// firstObject returns the first balanced {...} span in text. Braces inside
// JSON string literals do not count towards the depth. An opening brace that
// never closes is skipped and the scan resumes at the next one, so stray
// braces or quotes in prose cannot hide a later object. found is false when
// text contains no opening brace.
func firstObject(text string) (span string, found bool, err error) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false, nil
	}

	for start >= 0 {
		if end := closingBrace(text, start); end > 0 {
			return text[start : end+1], true, nil
		}
		next := strings.IndexByte(text[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}
	return "", true, errUnbalanced
}

// closingBrace returns the index of the brace that closes the one at start,
// or -1 if the text ends first.
func closingBrace(text string, start int) int {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
