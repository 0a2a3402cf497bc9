package models

// Category tags a post. The catalog is fixed and cannot be extended by users.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon,omitempty"`
}

var categoryCatalog = []Category{
	{ID: "1", Name: "Breakfast", Color: "#FFA726", Icon: "🌅"},
	{ID: "2", Name: "Lunch", Color: "#66BB6A", Icon: "☀️"},
	{ID: "3", Name: "Dinner", Color: "#EF5350", Icon: "🌙"},
	{ID: "4", Name: "Snacks", Color: "#FFCA28", Icon: "🍿"},
	{ID: "5", Name: "Desserts", Color: "#AB47BC", Icon: "🍰"},
	{ID: "6", Name: "Beverages", Color: "#42A5F5", Icon: "🥤"},
	{ID: "7", Name: "Healthy", Color: "#8BC34A", Icon: "🥗"},
	{ID: "8", Name: "Kids Favorite", Color: "#FF7043", Icon: "👶"},
}

// Categories returns a copy of the catalog in display order.
func Categories() []Category {
	out := make([]Category, len(categoryCatalog))
	copy(out, categoryCatalog)
	return out
}

// CategoryByID looks up a catalog entry.
func CategoryByID(id string) (Category, bool) {
	for _, c := range categoryCatalog {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// CategoriesByIDs resolves ids against the catalog, keeping catalog order and
// silently skipping unknown ids.
func CategoriesByIDs(ids []string) []Category {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	out := make([]Category, 0, len(ids))
	for _, c := range categoryCatalog {
		if _, ok := want[c.ID]; ok {
			out = append(out, c)
		}
	}
	return out
}
