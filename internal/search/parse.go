package search

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

var (
	ErrEmptyResponse  = errors.New("empty backend response")
	ErrMalformed      = errors.New("backend response is not a single json value")
	ErrSchemaMismatch = errors.New("backend response does not match the result schema")
)

const resultSchemaJSON = `{
  "type": "object",
  "required": ["organizationIds", "actorIds"],
  "properties": {
    "organizationIds": {"type": "array", "items": {"type": "string"}},
    "actorIds": {"type": "array", "items": {"type": "string"}}
  }
}`

var resultSchema = mustSchema(resultSchemaJSON)

var (
	// fencedBlock matches the first Markdown code block, with or without a language tag.
	fencedBlock = regexp.MustCompile("(?s)```[A-Za-z0-9_+-]*[ \t]*\r?\n?(.*?)```")
	// fencedSpan runs from the first opening fence to the last closing one.
	fencedSpan = regexp.MustCompile("(?s)```[A-Za-z0-9_+-]*[ \t]*\r?\n?(.*)```")
)

func mustSchema(raw string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(raw))
	if err != nil {
		panic(fmt.Sprintf("compile result schema: %v", err))
	}
	return schema
}

// parseResponse runs decode, sanitize and validate over the raw backend text.
// Every failure returns the canonical empty result together with the reason.
func parseResponse(raw string) (Result, error) {
	if strings.TrimSpace(raw) == "" {
		return Empty(), ErrEmptyResponse
	}

	cleaned := extractJSON(raw)
	if cleaned == "" {
		return Empty(), ErrEmptyResponse
	}

	var doc any
	if err := json.Unmarshal([]byte(cleaned), &doc); err != nil {
		return Empty(), fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if err := validateShape(doc); err != nil {
		return Empty(), fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	}

	fields, ok := doc.(map[string]any)
	if !ok {
		return Empty(), fmt.Errorf("%w: expected an object, got %T", ErrSchemaMismatch, doc)
	}

	return Result{
		OrganizationIDs: toStrings(fields["organizationIds"]),
		ActorIDs:        toStrings(fields["actorIds"]),
	}, nil
}

// extractJSON strips Markdown code fences around the payload. When the first
// block does not decode, a fence inside a string value closed it early and the
// span up to the last fence is tried instead.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if match := fencedBlock.FindStringSubmatch(raw); match != nil {
		block := trimFence(match[1])
		if json.Valid([]byte(block)) {
			return block
		}
		if span := fencedSpan.FindStringSubmatch(raw); span != nil && json.Valid([]byte(trimFence(span[1]))) {
			return trimFence(span[1])
		}
		return block
	}

	if strings.HasPrefix(raw, "```") {
		// Opening fence without a closing one.
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimLeft(raw, "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")
	}
	return trimFence(raw)
}

func trimFence(s string) string {
	s = strings.Trim(strings.TrimSpace(s), "`")
	return strings.TrimSpace(s)
}

func validateShape(doc any) error {
	result, err := resultSchema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return err
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func toStrings(v any) []string {
	items, _ := v.([]any)
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, _ := item.(string)
		out = append(out, s)
	}
	return out
}
