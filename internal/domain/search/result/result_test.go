package result

import "testing"

func TestNewModel(t *testing.T) {
	m := NewModel("apple", "iPhone 15", "img/15.png", 0.95)

	if m.Brand() != "apple" {
		t.Errorf("Brand() = %q", m.Brand())
	}
	if m.Model() != "iPhone 15" {
		t.Errorf("Model() = %q", m.Model())
	}
	if m.Image() != "img/15.png" {
		t.Errorf("Image() = %q", m.Image())
	}
	if m.Score() != 0.95 {
		t.Errorf("Score() = %f", m.Score())
	}
}

func TestEmpty(t *testing.T) {
	r := Empty()
	if !r.IsEmpty() {
		t.Fatal("Empty() should be empty")
	}
	if r.Brands() == nil || r.Models() == nil {
		t.Error("Empty() should return non-nil slices")
	}
	if _, ok := r.TopBrand(); ok {
		t.Error("TopBrand() on empty result")
	}
	if _, ok := r.TopModel(); ok {
		t.Error("TopModel() on empty result")
	}
}

func TestTop(t *testing.T) {
	r := New(
		[]Brand{NewBrand("samsung", 1), NewBrand("sony", 0.71)},
		[]Model{NewModel("samsung", "Galaxy S22", "", 0.93)},
		[]Diagnostic{{Brand: "samsung", Reason: "empty model name"}},
	)

	b, ok := r.TopBrand()
	if !ok || b.Brand() != "samsung" {
		t.Errorf("TopBrand() = %v, %v", b, ok)
	}
	m, ok := r.TopModel()
	if !ok || m.Model() != "Galaxy S22" {
		t.Errorf("TopModel() = %v, %v", m, ok)
	}
	if r.IsEmpty() {
		t.Error("IsEmpty() = true")
	}
	if len(r.Diagnostics()) != 1 {
		t.Errorf("Diagnostics() len = %d", len(r.Diagnostics()))
	}
}
