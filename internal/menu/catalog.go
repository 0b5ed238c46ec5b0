package menu

import "localfirst-bot/internal/domain"

// Section groups menu items under one display title, in browse order.
type Section struct {
	Title string
	Items []domain.MenuItem
}

// Catalog is a read-only item lookup. It is constructed once and passed in;
// replacing the menu is a deployment concern.
type Catalog struct {
	sections []Section
	byID     map[string]domain.MenuItem
}

func NewCatalog(sections []Section) *Catalog {
	byID := make(map[string]domain.MenuItem)
	for _, s := range sections {
		for _, it := range s.Items {
			byID[it.ID] = it
		}
	}
	return &Catalog{sections: sections, byID: byID}
}

func (c *Catalog) Find(id string) (domain.MenuItem, bool) {
	it, ok := c.byID[id]
	return it, ok
}

func (c *Catalog) Sections() []Section { return c.sections }

// Default returns the LocalFirst YYC menu.
func Default() *Catalog {
	return NewCatalog([]Section{
		{
			Title: "🍕 Pizzas",
			Items: []domain.MenuItem{
				{ID: "pepperoni", Name: "Pepperoni Pizza", Price: 18.99, Category: "pizzas", Emoji: "🍕"},
				{ID: "hawaiian", Name: "Hawaiian Pizza", Price: 19.99, Category: "pizzas", Emoji: "🍕"},
				{ID: "veggie", Name: "Veggie Supreme", Price: 20.99, Category: "pizzas", Emoji: "🥗"},
				{ID: "meat", Name: "Meat Lovers", Price: 22.99, Category: "pizzas", Emoji: "🥓"},
			},
		},
		{
			Title: "🍗 Sides",
			Items: []domain.MenuItem{
				{ID: "wings", Name: "Chicken Wings (10pc)", Price: 14.99, Category: "sides", Emoji: "🍗"},
				{ID: "breadsticks", Name: "Garlic Breadsticks", Price: 6.99, Category: "sides", Emoji: "🥖"},
				{ID: "salad", Name: "Caesar Salad", Price: 8.99, Category: "sides", Emoji: "🥗"},
			},
		},
		{
			Title: "🥤 Drinks",
			Items: []domain.MenuItem{
				{ID: "coke", Name: "Coca-Cola", Price: 2.99, Category: "drinks", Emoji: "🥤"},
				{ID: "sprite", Name: "Sprite", Price: 2.99, Category: "drinks", Emoji: "🥤"},
				{ID: "water", Name: "Bottled Water", Price: 1.99, Category: "drinks", Emoji: "💧"},
			},
		},
	})
}
