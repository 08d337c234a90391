package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// loadUnit reads and decodes one unit file. Any failure is returned as a single parse
// issue and the document is nil.
func loadUnit(ref UnitRef) (map[string]any, *Issue) {
	data, err := os.ReadFile(ref.Path)
	if err != nil {
		return nil, &Issue{File: ref.Rel, Category: CategoryParse, Message: fmt.Sprintf("read error: %v", err)}
	}
	doc, err := decodeUnit(data)
	if err != nil {
		return nil, &Issue{File: ref.Rel, Category: CategoryParse, Message: fmt.Sprintf("json decode: %v", err)}
	}
	return doc, nil
}

// decodeUnit decodes exactly one JSON object. Numbers are kept as json.Number so that
// integer checks do not go through float64.
func decodeUnit(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty document")
		}
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after top-level object")
	}

	doc, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("top-level value is %s, want object", describeKind(raw))
	}
	return doc, nil
}

// present reports whether key exists in m with a non-null value.
func present(m map[string]any, key string) bool {
	val, ok := m[key]
	return ok && val != nil
}

func describeKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number, float64, int:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func pickString(m map[string]any, key string, fallback string) string {
	if val, ok := m[key]; ok {
		switch v := val.(type) {
		case string:
			return strings.TrimSpace(v)
		case json.Number:
			return v.String()
		}
	}
	return fallback
}

// pickInt returns the value at key when it is an integral number.
func pickInt(m map[string]any, key string) (int, bool) {
	switch v := m[key].(type) {
	case json.Number:
		i, err := strconv.Atoi(v.String())
		if err != nil {
			return 0, false
		}
		return i, true
	case float64:
		if v != float64(int(v)) {
			return 0, false
		}
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}
