package domain

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// structEnvelope is the tolerant wire form of the composite document: resource
// values are kept raw so malformed entries can be coerced instead of failing
// the whole decode.
type structEnvelope struct {
	SchemaVersion int64                      `json:"schemaVersion"`
	UpdatedAt     json.RawMessage            `json:"updatedAt"`
	Resources     map[string]json.RawMessage `json:"resources"`
}

// DecodeStruct parses a composite document and normalizes it: every known
// resource key exists, every value is a sequence, malformed values become
// empty sequences.
func DecodeStruct(raw []byte) (ContentStruct, error) {
	var env structEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return ContentStruct{}, err
	}

	s := ContentStruct{
		SchemaVersion: env.SchemaVersion,
		Resources:     map[string]ResourceList{},
	}
	if len(env.UpdatedAt) > 0 {
		// a malformed timestamp degrades to zero rather than failing the doc
		_ = json.Unmarshal(env.UpdatedAt, &s.UpdatedAt)
	}
	for id, value := range env.Resources {
		s.Resources[id] = CoerceRawList(value)
	}
	Normalize(&s)
	return s, nil
}

// DecodeIncomingStruct parses a submitted composite document without filling
// in missing known resources: only keys actually present in the payload
// participate in the merge, so a partial save cannot blank untouched
// resources.
func DecodeIncomingStruct(raw []byte) (ContentStruct, error) {
	var env structEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return ContentStruct{}, err
	}
	s := ContentStruct{
		SchemaVersion: env.SchemaVersion,
		Resources:     map[string]ResourceList{},
	}
	for id, value := range env.Resources {
		s.Resources[id] = CoerceRawList(value)
	}
	return s, nil
}

func EncodeStruct(s ContentStruct) ([]byte, error) {
	return json.Marshal(s)
}

// Normalize enforces the composite invariants in place: the resource map is
// non-nil, every known id is present, and no sequence is nil. Normalizing an
// already-normalized document is a no-op.
func Normalize(s *ContentStruct) {
	if s.Resources == nil {
		s.Resources = map[string]ResourceList{}
	}
	for _, id := range KnownResources {
		if _, ok := s.Resources[id]; !ok {
			s.Resources[id] = ResourceList{}
		}
	}
	for id, list := range s.Resources {
		if list == nil {
			s.Resources[id] = ResourceList{}
		}
	}
}

// CoerceRawList parses a raw JSON value as a sequence. Anything that is not a
// JSON array coerces to an empty sequence.
func CoerceRawList(raw []byte) ResourceList {
	var list ResourceList
	if err := json.Unmarshal(raw, &list); err != nil || list == nil {
		return ResourceList{}
	}
	return list
}

// CoerceList accepts a decoded JSON value and reports whether it is a
// sequence. Nil counts as an empty sequence; any other non-array shape is the
// caller's validation failure.
func CoerceList(v any) (ResourceList, bool) {
	if v == nil {
		return ResourceList{}, true
	}
	switch list := v.(type) {
	case ResourceList:
		return list, true
	case []any:
		return ResourceList(list), true
	default:
		return nil, false
	}
}

// ValidateResource checks a payload against the shape its resource id
// requires. List resources accept any items; site-content items must be page
// objects.
func ValidateResource(id string, list ResourceList) error {
	if id != ResourceSiteContent {
		return nil
	}
	for _, item := range list {
		if _, ok := item.(map[string]any); !ok {
			return ValidationError{Reason: "site-content items must be page objects"}
		}
	}
	return nil
}

// PageIdentity derives the merge key of a site-content page: the lowercased
// id or page_id field, or empty when the page carries neither.
func PageIdentity(item any) string {
	page, ok := item.(map[string]any)
	if !ok {
		return ""
	}
	for _, field := range []string{"id", "page_id"} {
		switch v := page[field].(type) {
		case string:
			if trimmed := strings.TrimSpace(v); trimmed != "" {
				return strings.ToLower(trimmed)
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

// EnsurePageIDs assigns ids to pages, sections and images that arrive without
// one, so later merges have stable identities to match on.
func EnsurePageIDs(list ResourceList) {
	for _, item := range list {
		page, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if PageIdentity(page) == "" {
			page["id"] = uuid.NewString()
		}
		for _, field := range []string{"sections", "images"} {
			blocks, ok := page[field].([]any)
			if !ok {
				continue
			}
			for _, block := range blocks {
				m, ok := block.(map[string]any)
				if !ok {
					continue
				}
				if id, _ := m["id"].(string); id == "" {
					m["id"] = uuid.NewString()
				}
			}
		}
	}
}

// CopyList deep-copies a resource sequence through a JSON round trip so
// callers can mutate the result freely.
func CopyList(list ResourceList) ResourceList {
	if len(list) == 0 {
		return ResourceList{}
	}
	raw, err := json.Marshal(list)
	if err != nil {
		return ResourceList{}
	}
	return CoerceRawList(raw)
}
