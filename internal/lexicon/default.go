package lexicon

// Patterns run against normalized text: lowercase, single-spaced, letters and digits only.

var defaultLexicon = mustNew(DefaultTables())

// Default returns the built-in phone lexicon. The returned value is shared and read-only.
func Default() *Lexicon { return defaultLexicon }

func mustNew(t Tables) *Lexicon {
	l, err := New(t)
	if err != nil {
		panic(err)
	}
	return l
}

// DefaultTables returns a fresh copy of the built-in tables.
func DefaultTables() Tables {
	return Tables{
		Brands:    buildBrandAliases(),
		Series:    buildSeriesPatterns(),
		Modifiers: buildModifiers(),
	}
}

func buildBrandAliases() map[string][]string {
	return map[string][]string{
		"apple":    {"iphone"},
		"samsung":  {"galaxy"},
		"google":   {"pixel"},
		"xiaomi":   {"redmi", "poco"},
		"huawei":   {},
		"oneplus":  {"one plus"},
		"motorola": {"moto", "razr"},
		"sony":     {"xperia"},
		"oppo":     {},
		"vivo":     {},
		"realme":   {},
		"honor":    {},
		"nokia":    {},
	}
}

func buildSeriesPatterns() map[string][]SeriesDef {
	return map[string][]SeriesDef{
		"apple": {
			{Tag: "iphone", Pattern: `\biphone\s?(\d{1,2}|se|xr|xs|x)\b(?:\s(pro max|pro|plus|mini|max))?`},
		},
		"samsung": {
			{Tag: "galaxy s", Pattern: `\bs(\d{1,2})\b(?:\s(ultra|plus|fe|edge))?`},
			{Tag: "galaxy a", Pattern: `\ba(\d{2})\b`},
			{Tag: "galaxy m", Pattern: `\bm(\d{2})\b`},
			{Tag: "galaxy z", Pattern: `\bz\s?(fold|flip)\s?(\d)?\b`},
			{Tag: "galaxy note", Pattern: `\bnote\s?(\d{1,2})\b(?:\s(ultra|plus))?`},
		},
		"google": {
			{Tag: "pixel", Pattern: `\bpixel\s?(\d{1,2}a?)\b(?:\s(pro xl|pro fold|pro|xl|fold))?`},
		},
		"xiaomi": {
			{Tag: "redmi note", Pattern: `\bredmi\snote\s?(\d{1,2})\b(?:\s(pro|s))?`},
			{Tag: "redmi", Pattern: `\bredmi\s(\d{1,2}[a-z]?|a\d)\b`},
			{Tag: "xiaomi", Pattern: `\bxiaomi\s(\d{1,2})\b(?:\s(ultra|pro|t pro|t|lite))?`},
			{Tag: "poco", Pattern: `\bpoco\s([fxmc]\d)\b(?:\s(pro|gt))?`},
		},
		"huawei": {
			{Tag: "huawei p", Pattern: `\bp(\d{2})\b(?:\s(pro|lite))?`},
			{Tag: "mate", Pattern: `\bmate\s?(\d{2}|x\d?)\b(?:\s(pro|rs|lite))?`},
			{Tag: "nova", Pattern: `\bnova\s?(\d{1,2}[a-z]?)\b(?:\s(pro|se))?`},
		},
		"oneplus": {
			{Tag: "oneplus", Pattern: `\bone\s?plus\s?(\d{1,2}t?|open)\b(?:\s(pro))?`},
			{Tag: "nord", Pattern: `\bnord(?:\s(ce\s?\d|ce|n\d{2,3}|\d))?\b`},
		},
		"motorola": {
			{Tag: "moto", Pattern: `\bmoto\s([gez])\s?(\d{1,3})?\b`},
			{Tag: "edge", Pattern: `\bedge(?:\s?(\d{2}))?\b(?:\s(pro|plus|neo|ultra))?`},
			{Tag: "razr", Pattern: `\brazr(?:\s?(\d{2}))?\b(?:\s(ultra|plus))?`},
		},
		"sony": {
			{Tag: "xperia", Pattern: `\bxperia\s?(\d{1,2})\b(?:\s(vi|v|iv|iii|ii))?`},
		},
		"oppo": {
			{Tag: "reno", Pattern: `\breno\s?(\d{1,2})\b(?:\s(pro|f|z))?`},
			{Tag: "find x", Pattern: `\bfind\sx(\d)\b(?:\s(pro|neo|lite))?`},
		},
		"vivo": {
			{Tag: "vivo x", Pattern: `\bx(\d{2,3})\b(?:\s(pro|ultra))?`},
			{Tag: "vivo v", Pattern: `\bv(\d{2})\b(?:\s(pro|e))?`},
		},
		"realme": {
			{Tag: "realme", Pattern: `\brealme\s(\d{1,2})\b(?:\s(pro|x))?`},
			{Tag: "realme gt", Pattern: `\bgt\s?(\d)\b(?:\s(neo|pro))?`},
		},
		"honor": {
			{Tag: "honor", Pattern: `\bhonor\s(\d{2,3})\b(?:\s(pro|lite))?`},
			{Tag: "magic", Pattern: `\bmagic\s?(\d)\b(?:\s(pro|lite))?`},
		},
		"nokia": {
			{Tag: "nokia", Pattern: `\bnokia\s([gcx]\d{2,3}|\d{1,2})\b`},
		},
	}
}

func buildModifiers() map[Tier][]string {
	return map[Tier][]string{
		TierPremium: {"pro", "max", "ultra", "plus"},
		TierBudget:  {"lite", "mini", "neo"},
		TierSpecial: {"fold", "flip", "edge"},
	}
}
