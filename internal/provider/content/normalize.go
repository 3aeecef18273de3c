package content

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/Digital-Shane/semv/internal/ident"
	"github.com/Digital-Shane/semv/internal/provider"
)

// Field names differ between deployments of the content API. The first key
// present wins.
var (
	titleKeys = []string{"Title", "title"}
	yearKeys  = []string{"Year", "year"}
	listKeys  = []string{"files", "streamingLinks", "links"}
)

// Normalize maps any known response shape of the content API onto a
// ContentResult. A falsy body (empty, null, false, 0 or "") means the post
// does not exist.
func Normalize(raw []byte) (provider.ContentResult, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return provider.ContentResult{}, notFound("empty response")
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var body any
	if err := dec.Decode(&body); err != nil {
		return provider.ContentResult{}, provider.NewError(providerName, provider.CodeRequestFailed, "decoding response", err)
	}

	switch v := body.(type) {
	case nil:
		return provider.ContentResult{}, notFound("null response")
	case bool:
		if !v {
			return provider.ContentResult{}, notFound("false response")
		}
	case string:
		if v == "" {
			return provider.ContentResult{}, notFound("empty string response")
		}
	case json.Number:
		if f, err := v.Float64(); err == nil && f == 0 {
			return provider.ContentResult{}, notFound("zero response")
		}
	case map[string]any:
		return normalizeObject(v), nil
	}

	return provider.ContentResult{}, notFound("unexpected response shape")
}

func normalizeObject(obj map[string]any) provider.ContentResult {
	result := provider.ContentResult{
		Title:   firstString(obj, titleKeys),
		Year:    firstString(obj, yearKeys),
		FileIDs: []string{},
	}

	for _, key := range listKeys {
		list, ok := obj[key].([]any)
		if !ok {
			continue
		}
		result.FileIDs = fileIDs(list)
		break
	}

	return result
}

// fileIDs accepts bare ID strings as well as link objects carrying an "id" or
// a "url" field.
func fileIDs(list []any) []string {
	ids := make([]string, 0, len(list))
	for _, item := range list {
		switch v := item.(type) {
		case string:
			if id := strings.TrimSpace(v); id != "" {
				ids = append(ids, id)
			}
		case json.Number:
			ids = append(ids, v.String())
		case map[string]any:
			if id := stringValue(v["id"]); id != "" {
				ids = append(ids, id)
				continue
			}
			// Placeholder links such as "#" carry no file.
			u := stringValue(v["url"])
			if !ident.IsURL(u) {
				continue
			}
			if id, ok := ident.ExtractID(u); ok {
				ids = append(ids, id)
			}
		}
	}
	return ids
}

func firstString(obj map[string]any, keys []string) string {
	for _, key := range keys {
		if s := stringValue(obj[key]); s != "" {
			return s
		}
	}
	return ""
}

func stringValue(v any) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case json.Number:
		return s.String()
	default:
		return ""
	}
}

func notFound(reason string) error {
	return provider.NewError(providerName, provider.CodeNotFound, "no data found for this post ID ("+reason+")", nil)
}
