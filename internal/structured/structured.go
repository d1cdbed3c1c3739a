// Package structured steers the LLM toward a declared JSON shape and parses
// its output strictly against that shape, retrying a bounded number of times.
package structured

import (
	"context"
	"encoding/json"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"course-generator/internal/apperr"
	"course-generator/internal/llmservice"
)

// Extra attempts after the first, matching the upstream default of two retries.
const DefaultExtraAttempts = 2

const jsonOnlyInstruction = "IMPORTANT: You MUST respond with ONLY valid JSON. " +
	"Do not include any markdown formatting, explanations, or text outside the JSON structure."

var validate = validator.New()

// Generate prompts gen and decodes the reply into T. Malformed or
// schema-violating output is retried up to extraAttempts more times; when all
// attempts fail the last cause is returned as a schema validation error,
// never a partial value.
func Generate[T any](ctx context.Context, gen llmservice.Generator, system, user string, extraAttempts int) (T, error) {
	var zero T
	if extraAttempts < 0 {
		extraAttempts = DefaultExtraAttempts
	}

	system = system + "\n\n" + jsonOnlyInstruction + "\n\n" + FormatInstructions(zero)

	var lastErr error
	for attempt := 0; attempt <= extraAttempts; attempt++ {
		raw, err := gen.Generate(ctx, system, user)
		if err != nil {
			return zero, err
		}

		out, err := parse[T](raw)
		if err == nil {
			return out, nil
		}
		lastErr = err
		log.Warn().Err(err).Int("attempt", attempt+1).Msg("structured output did not match schema")
	}
	return zero, apperr.Wrap(apperr.CodeSchema, "output did not match the expected schema", lastErr)
}

func parse[T any](raw string) (T, error) {
	var out T
	payload := stripFences(raw)
	if err := json.Unmarshal([]byte(payload), &out); err != nil {
		return out, err
	}
	if err := validate.Struct(out); err != nil {
		return out, err
	}
	return out, nil
}

// stripFences removes incidental markdown code fencing around the payload.
// Models are instructed to emit raw JSON, but that is a soft constraint.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, "```"); i >= 0 {
		s = s[i+3:]
		s = strings.TrimPrefix(s, "json")
		if j := strings.LastIndex(s, "```"); j >= 0 {
			s = s[:j]
		}
	}
	return strings.TrimSpace(s)
}

// FormatInstructions describes v's JSON shape for the prompt, assembled from
// the json and describe struct tags.
func FormatInstructions(v any) string {
	var b strings.Builder
	b.WriteString("The JSON object must match this schema exactly:\n")
	writeType(&b, reflect.TypeOf(v), "")
	return b.String()
}

func writeType(b *strings.Builder, t reflect.Type, indent string) {
	switch t.Kind() {
	case reflect.Pointer:
		writeType(b, t.Elem(), indent)
	case reflect.Struct:
		b.WriteString("{\n")
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			name := strings.Split(f.Tag.Get("json"), ",")[0]
			if name == "" || name == "-" {
				continue
			}
			b.WriteString(indent + "  \"" + name + "\": ")
			writeType(b, f.Type, indent+"  ")
			if d := f.Tag.Get("describe"); d != "" {
				b.WriteString("  // " + d)
			}
			b.WriteString("\n")
		}
		b.WriteString(indent + "}")
	case reflect.Slice, reflect.Array:
		b.WriteString("[")
		writeType(b, t.Elem(), indent)
		b.WriteString(", ...]")
	case reflect.String:
		b.WriteString("string")
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		b.WriteString("integer")
	case reflect.Float32, reflect.Float64:
		b.WriteString("number")
	case reflect.Bool:
		b.WriteString("boolean")
	default:
		b.WriteString("value")
	}
}
