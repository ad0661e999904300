package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pricewise/pricesearch/internal/domain"
)

const (
	fieldModels  = "models"
	fieldBrandID = "brand_id"
	fieldModel   = "model"
	fieldImage   = "model_image"
)

// Decode parses a catalog document of the form
//
//	{"<brand>": {"brand_id": ..., "models": ["name", {"model": "name", "model_image": "...", ...}]}}
//
// Only a document that is not a JSON object fails. Every other defect (missing or non-list
// models, a model that is neither a string nor an object, an unusable name) skips that brand
// or model and is reported through Snapshot.Issues.
func Decode(category string, data []byte) (Snapshot, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil || top == nil {
		if err == nil {
			err = errors.New("top level is null")
		}
		return Snapshot{}, fmt.Errorf("%w: %w", domain.ErrInvalidCatalog, err)
	}

	var (
		raw    = make([]rawEntry, 0, len(top))
		issues []Issue
	)
	for brand, value := range top {
		entry, issue, ok := decodeBrand(brand, value)
		if !ok {
			issues = append(issues, issue)
			continue
		}
		raw = append(raw, entry)
	}
	return build(category, raw, issues), nil
}

func decodeBrand(brand string, value json.RawMessage) (rawEntry, Issue, bool) {
	value = bytes.TrimSpace(value)
	if len(value) == 0 {
		return rawEntry{}, Issue{Brand: brand, Index: -1, Reason: "empty brand value"}, false
	}

	// A bare list of models is accepted for older documents.
	if value[0] == '[' {
		recs, ok := decodeModels(value)
		if !ok {
			return rawEntry{}, Issue{Brand: brand, Index: -1, Reason: "models is not a list"}, false
		}
		return rawEntry{brand: brand, records: recs}, Issue{}, true
	}

	var obj map[string]json.RawMessage
	if value[0] != '{' || json.Unmarshal(value, &obj) != nil {
		return rawEntry{}, Issue{Brand: brand, Index: -1, Reason: "brand value is not an object"}, false
	}
	models, ok := obj[fieldModels]
	if !ok {
		return rawEntry{}, Issue{Brand: brand, Index: -1, Reason: "missing models"}, false
	}
	recs, ok := decodeModels(models)
	if !ok {
		return rawEntry{}, Issue{Brand: brand, Index: -1, Reason: "models is not a list"}, false
	}
	return rawEntry{brand: brand, brandID: decodeBrandID(obj[fieldBrandID]), records: recs}, Issue{}, true
}

func decodeModels(value json.RawMessage) ([]Record, bool) {
	var items []json.RawMessage
	if err := json.Unmarshal(value, &items); err != nil {
		return nil, false
	}
	recs := make([]Record, 0, len(items))
	for _, item := range items {
		recs = append(recs, decodeRecord(item))
	}
	return recs, true
}

func decodeRecord(item json.RawMessage) Record {
	item = bytes.TrimSpace(item)
	if len(item) == 0 {
		return invalidRecord("empty model value")
	}
	switch item[0] {
	case '"':
		var name string
		if err := json.Unmarshal(item, &name); err != nil {
			return invalidRecord("malformed model string")
		}
		return NamedModel(name)
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(item, &obj); err != nil {
			return invalidRecord("malformed model object")
		}
		var name string
		if err := json.Unmarshal(obj[fieldModel], &name); err != nil {
			return invalidRecord("model name is not a string")
		}
		image, imageOK := decodeImage(obj[fieldImage])
		delete(obj, fieldModel)
		delete(obj, fieldImage)
		if len(obj) == 0 {
			obj = nil
		}
		rec := DetailedModel(name, image, obj)
		if !imageOK {
			rec = rec.withWarning("model_image is not a string, image dropped")
		}
		return rec
	default:
		return invalidRecord("unexpected model shape")
	}
}

// decodeImage reads an optional image reference. A missing or null image is valid.
func decodeImage(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", true
	}
	var image string
	if err := json.Unmarshal(raw, &image); err != nil {
		return "", false
	}
	return image, true
}

func decodeBrandID(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	// Exported document-store ids look like {"$oid": "..."}.
	var oid struct {
		OID string `json:"$oid"`
	}
	if json.Unmarshal(raw, &oid) == nil && oid.OID != "" {
		return oid.OID
	}
	return string(raw)
}

type encodedBrand struct {
	BrandID string                       `json:"brand_id,omitempty"`
	Models  []map[string]json.RawMessage `json:"models"`
}

// Encode writes a snapshot in the structured document shape accepted by Decode.
func Encode(s Snapshot) ([]byte, error) {
	doc := make(map[string]encodedBrand, len(s.entries))
	for _, e := range s.entries {
		models := make([]map[string]json.RawMessage, 0, len(e.models))
		for _, m := range e.models {
			obj := make(map[string]json.RawMessage, len(m.extra)+2)
			for k, v := range m.extra {
				obj[k] = v
			}
			name, err := json.Marshal(m.name)
			if err != nil {
				return nil, fmt.Errorf("encode %s/%s: %w", e.brand, m.name, err)
			}
			image, err := json.Marshal(m.image)
			if err != nil {
				return nil, fmt.Errorf("encode %s/%s: %w", e.brand, m.name, err)
			}
			obj[fieldModel] = name
			obj[fieldImage] = image
			models = append(models, obj)
		}
		doc[e.brand] = encodedBrand{BrandID: e.brandID, Models: models}
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode catalog: %w", err)
	}
	return data, nil
}
