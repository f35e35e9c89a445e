// Package vector provides the embedding codec and similarity kernel used by
// the retrieval engine. Everything in this package is pure and stateless.
package vector

import (
	"strconv"
	"strings"
)

// encoding identifies the shape a stored embedding value arrived in.
type encoding int

const (
	encodingNumeric encoding = iota
	encodingJSONArray
	encodingBraceArray
	encodingUnrecognized
)

// Parse decodes a stored embedding value into a numeric vector. It accepts an
// already-numeric sequence, a JSON-array string ("[0.1,0.2]"), or the
// brace-delimited list some relational stores use for array columns
// ("{0.1,0.2}"). Any other shape yields a nil vector; callers must treat that
// as "no embedding available" and exclude the chunk from scoring.
func Parse(raw interface{}) []float32 {
	switch detect(raw) {
	case encodingNumeric:
		return parseNumeric(raw)
	case encodingJSONArray:
		s := strings.TrimSpace(raw.(string))
		return parseDelimited(s, "[", "]")
	case encodingBraceArray:
		s := strings.TrimSpace(raw.(string))
		return parseDelimited(s, "{", "}")
	default:
		return nil
	}
}

// Format encodes a vector as a JSON-array string, the inverse of Parse for
// the JSON-array encoding. Used when no native vector column is available.
func Format(v []float32) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, f := range v {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(f), 'g', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}

func detect(raw interface{}) encoding {
	switch v := raw.(type) {
	case []float32, []float64:
		return encodingNumeric
	case []interface{}:
		return encodingNumeric
	case string:
		s := strings.TrimSpace(v)
		if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
			return encodingJSONArray
		}
		if strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") {
			return encodingBraceArray
		}
		return encodingUnrecognized
	default:
		return encodingUnrecognized
	}
}

func parseNumeric(raw interface{}) []float32 {
	switch v := raw.(type) {
	case []float32:
		return v
	case []float64:
		out := make([]float32, len(v))
		for i, f := range v {
			out[i] = float32(f)
		}
		return out
	case []interface{}:
		out := make([]float32, 0, len(v))
		for _, e := range v {
			switch n := e.(type) {
			case float64:
				out = append(out, float32(n))
			case float32:
				out = append(out, n)
			case int:
				out = append(out, float32(n))
			default:
				// Mixed non-numeric content means the value is not an
				// embedding at all.
				return nil
			}
		}
		return out
	default:
		return nil
	}
}

func parseDelimited(s, open, closing string) []float32 {
	inner := strings.TrimSuffix(strings.TrimPrefix(s, open), closing)
	inner = strings.TrimSpace(inner)
	if inner == "" {
		return nil
	}

	parts := strings.Split(inner, ",")
	out := make([]float32, 0, len(parts))
	for _, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return nil
		}
		out = append(out, float32(f))
	}
	return out
}
