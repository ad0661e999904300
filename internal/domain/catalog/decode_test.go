package catalog

import (
	"errors"
	"testing"

	"github.com/pricewise/pricesearch/internal/domain"
)

const mixedDocument = `{
	"Apple": {"brand_id": {"$oid": "65a1"}, "models": [
		"iPhone 15",
		{"model": "iPhone 15 Pro", "model_image": "15pro.png", "variant": "256GB"},
		{"model": 42},
		7,
		{"model": "   "}
	]},
	"samsung": {"brand_id": "b-2", "models": [{"model": "Galaxy S24", "model_image": 3}]},
	"nokia": {"brand_id": 5},
	"sony": {"models": "xperia"},
	"oneplus": ["OnePlus 12"],
	"huawei": "P60"
}`

func TestDecode_MixedShapes(t *testing.T) {
	s, err := Decode("phones", []byte(mixedDocument))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}

	entries := map[string]Entry{}
	for _, e := range s.Entries() {
		entries[e.Brand()] = e
	}
	if len(entries) != 3 {
		t.Fatalf("entries = %v, want apple, oneplus, samsung", s.Brands())
	}

	apple := entries["apple"]
	if apple.BrandID() != "65a1" {
		t.Errorf("apple BrandID() = %q", apple.BrandID())
	}
	if len(apple.Models()) != 2 {
		t.Fatalf("apple models = %d, want 2", len(apple.Models()))
	}
	pro := apple.Models()[1]
	if pro.Name() != "iPhone 15 Pro" || pro.Image() != "15pro.png" {
		t.Errorf("apple[1] = %q %q", pro.Name(), pro.Image())
	}
	if string(pro.Extra()["variant"]) != `"256GB"` {
		t.Errorf("extra fields lost: %v", pro.Extra())
	}

	samsung := entries["samsung"]
	if samsung.BrandID() != "b-2" {
		t.Errorf("samsung BrandID() = %q", samsung.BrandID())
	}
	if m := samsung.Models()[0]; m.Name() != "Galaxy S24" || m.Image() != "" {
		t.Errorf("samsung[0] = %q %q", m.Name(), m.Image())
	}

	if len(entries["oneplus"].Models()) != 1 {
		t.Error("bare model list not accepted")
	}

	// apple: 3 bad models; samsung: bad image; nokia: missing models; sony: non-list;
	// huawei: not an object
	if got := len(s.Issues()); got != 7 {
		t.Errorf("Issues() = %d %v, want 7", got, s.Issues())
	}
}

func TestDecode_MalformedImageKeepsModel(t *testing.T) {
	doc := `{"samsung": {"models": [
		{"model": "Galaxy S24", "model_image": {"src": "s24.png"}},
		{"model": "Galaxy S23", "model_image": null},
		{"model": "Galaxy S22", "model_image": "s22.png"}
	]}}`
	s, err := Decode("phones", []byte(doc))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if s.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", s.Len())
	}

	issues := s.Issues()
	if len(issues) != 1 {
		t.Fatalf("Issues() = %v, want 1", issues)
	}
	if issues[0].Brand != "samsung" || issues[0].Index != 0 || issues[0].Reason != "model_image is not a string, image dropped" {
		t.Errorf("issue = %+v", issues[0])
	}

	images := map[string]string{}
	for _, m := range s.Entries()[0].Models() {
		images[m.Name()] = m.Image()
	}
	if images["Galaxy S24"] != "" || images["Galaxy S23"] != "" || images["Galaxy S22"] != "s22.png" {
		t.Errorf("images = %v", images)
	}
}

func TestDecode_InvalidTopLevel(t *testing.T) {
	for _, doc := range []string{`[]`, `"x"`, `null`, `{`, ``} {
		_, err := Decode("phones", []byte(doc))
		if !errors.Is(err, domain.ErrInvalidCatalog) {
			t.Errorf("Decode(%q) error = %v, want ErrInvalidCatalog", doc, err)
		}
	}
}

func TestEncode_Decode(t *testing.T) {
	in, err := Decode("phones", []byte(mixedDocument))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	data, err := Encode(in)
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	out, err := Decode("phones", data)
	if err != nil {
		t.Fatalf("Decode(Encode()) error: %v", err)
	}
	if len(out.Issues()) != 0 {
		t.Errorf("re-decoded issues: %v", out.Issues())
	}
	if in.Len() != out.Len() {
		t.Errorf("Len() = %d, want %d", out.Len(), in.Len())
	}
	if out.Entries()[0].BrandID() != "65a1" {
		t.Errorf("brand id lost: %q", out.Entries()[0].BrandID())
	}
}
