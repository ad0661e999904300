package result

// Brand is a candidate brand with its confidence score.
type Brand struct {
	brand string
	score float64
}

// NewBrand creates a brand candidate.
func NewBrand(brand string, score float64) Brand {
	return Brand{brand: brand, score: score}
}

// Brand returns the catalog brand key.
func (b Brand) Brand() string { return b.brand }

// Score returns the confidence score in [0, 1].
func (b Brand) Score() float64 { return b.score }

// Model is a candidate (brand, model) pair with its confidence score.
type Model struct {
	brand string
	model string
	image string
	score float64
}

// NewModel creates a model candidate.
func NewModel(brand, model, image string, score float64) Model {
	return Model{brand: brand, model: model, image: image, score: score}
}

// Brand returns the catalog brand key.
func (m Model) Brand() string { return m.brand }

// Model returns the catalog model name.
func (m Model) Model() string { return m.model }

// Image returns the opaque image reference passed through from the catalog.
func (m Model) Image() string { return m.image }

// Score returns the confidence score in [0, 1].
func (m Model) Score() float64 { return m.score }

// Diagnostic records a catalog record skipped while ranking.
type Diagnostic struct {
	Brand  string
	Model  string
	Reason string
}

// Result is the ranked outcome of one search: brands and models in descending score order.
type Result struct {
	brands      []Brand
	models      []Model
	diagnostics []Diagnostic
}

// New creates a search result. Slices are expected to be sorted already.
func New(brands []Brand, models []Model, diagnostics []Diagnostic) Result {
	return Result{brands: brands, models: models, diagnostics: diagnostics}
}

// Empty returns a result with no candidates.
func Empty() Result {
	return Result{brands: []Brand{}, models: []Model{}}
}

// Brands returns the brand candidates.
func (r Result) Brands() []Brand { return r.brands }

// Models returns the model candidates.
func (r Result) Models() []Model { return r.models }

// Diagnostics returns the records skipped during ranking.
func (r Result) Diagnostics() []Diagnostic { return r.diagnostics }

// IsEmpty reports whether neither brands nor models were found.
func (r Result) IsEmpty() bool { return len(r.brands) == 0 && len(r.models) == 0 }

// TopBrand returns the best brand candidate.
func (r Result) TopBrand() (Brand, bool) {
	if len(r.brands) == 0 {
		return Brand{}, false
	}
	return r.brands[0], true
}

// TopModel returns the best model candidate.
func (r Result) TopModel() (Model, bool) {
	if len(r.models) == 0 {
		return Model{}, false
	}
	return r.models[0], true
}
