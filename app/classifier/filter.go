package classifier

// Filter retains items by category. A non-empty include set is evaluated
// first and is strictly narrowing; the exclude set is evaluated after. When
// the caller supplies neither set, entertainment and sports are excluded by
// default.
type Filter struct {
	include map[Category]struct{}
	exclude map[Category]struct{}
}

// DefaultExcluded applies when a filter is built with no include and no
// exclude categories.
var DefaultExcluded = []Category{CategoryEntertainment, CategorySports}

func NewFilter(include, exclude []Category) *Filter {
	if len(include) == 0 && len(exclude) == 0 {
		exclude = DefaultExcluded
	}

	f := &Filter{
		include: make(map[Category]struct{}, len(include)),
		exclude: make(map[Category]struct{}, len(exclude)),
	}
	for _, c := range include {
		f.include[c] = struct{}{}
	}
	for _, c := range exclude {
		f.exclude[c] = struct{}{}
	}
	return f
}

// Allows reports whether an item with the given category is retained.
func (f *Filter) Allows(category Category) bool {
	if len(f.include) > 0 {
		if _, ok := f.include[category]; !ok {
			return false
		}
	}
	_, excluded := f.exclude[category]
	return !excluded
}
