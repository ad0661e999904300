package searchcache

import "github.com/pricewise/pricesearch/internal/domain/search/result"

type cachedBrand struct {
	Brand string  `json:"brand"`
	Score float64 `json:"score"`
}

type cachedModel struct {
	Brand string  `json:"brand"`
	Model string  `json:"model"`
	Image string  `json:"model_image,omitempty"`
	Score float64 `json:"score"`
}

type cachedResult struct {
	Brands []cachedBrand `json:"brands"`
	Models []cachedModel `json:"models"`
}

func fromDomain(r result.Result) cachedResult {
	out := cachedResult{
		Brands: make([]cachedBrand, 0, len(r.Brands())),
		Models: make([]cachedModel, 0, len(r.Models())),
	}
	for _, b := range r.Brands() {
		out.Brands = append(out.Brands, cachedBrand{Brand: b.Brand(), Score: b.Score()})
	}
	for _, m := range r.Models() {
		out.Models = append(out.Models, cachedModel{Brand: m.Brand(), Model: m.Model(), Image: m.Image(), Score: m.Score()})
	}
	return out
}

func (c cachedResult) toDomain() result.Result {
	brands := make([]result.Brand, 0, len(c.Brands))
	for _, b := range c.Brands {
		brands = append(brands, result.NewBrand(b.Brand, b.Score))
	}
	models := make([]result.Model, 0, len(c.Models))
	for _, m := range c.Models {
		models = append(models, result.NewModel(m.Brand, m.Model, m.Image, m.Score))
	}
	return result.New(brands, models, nil)
}
