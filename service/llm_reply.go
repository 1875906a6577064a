package service

import (
	"errors"
	"slices"
	"strings"

	"github.com/FlorianRuen/repo-insight/llm"
	"github.com/tidwall/gjson"
)

var errMalformedReply = errors.New("MALFORMED_LLM_REPLY")

// ParseReply turns an untrusted LLM reply into a JSON object.
// Code fences are stripped first, then the outermost object is extracted if needed.
func ParseReply(text string) (gjson.Result, error) {
	stripped := llm.StripCodeFences(text)

	if !gjson.Valid(stripped) {
		extracted, err := llm.ExtractJSON(stripped)
		if err != nil || !gjson.Valid(extracted) {
			return gjson.Result{}, errMalformedReply
		}

		stripped = extracted
	}

	parsed := gjson.Parse(stripped)
	if !parsed.IsObject() {
		return gjson.Result{}, errMalformedReply
	}

	return parsed, nil
}

// stringList keeps the non-empty string elements of an array value.
// ok is false when the value is not an array.
func stringList(value gjson.Result) (values []string, ok bool) {
	if !value.IsArray() {
		return nil, false
	}

	values = make([]string, 0)
	for _, item := range value.Array() {
		if item.Type != gjson.String {
			continue
		}

		if s := strings.TrimSpace(item.Str); s != "" {
			values = append(values, s)
		}
	}

	return values, true
}

// coerceList returns at most maxItems strings, using fallback when the value is unusable
func coerceList(value gjson.Result, maxItems int, fallback string) []string {
	values, ok := stringList(value)
	if !ok || len(values) == 0 {
		return []string{fallback}
	}

	if maxItems > 0 && len(values) > maxItems {
		values = values[:maxItems]
	}

	return values
}

// padList appends fillers not already present until values holds minItems elements
func padList(values []string, minItems int, fillers []string) []string {
	for _, filler := range fillers {
		if len(values) >= minItems {
			break
		}

		if !slices.Contains(values, filler) {
			values = append(values, filler)
		}
	}

	return values
}

// firstOf returns the first path that exists in the object
func firstOf(obj gjson.Result, paths ...string) gjson.Result {
	for _, p := range paths {
		if v := obj.Get(p); v.Exists() {
			return v
		}
	}

	return gjson.Result{}
}

func clamp(value, low, high int) int {
	return max(low, min(value, high))
}
