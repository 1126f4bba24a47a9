package models

const (
	CategoryPizzas = "PIZZAS"
	CategoryDrinks = "BEBIDAS"
)

const (
	SizeFamiliar = "FAMILIAR"
	SizeMedium   = "MEDIO"
	SizeSmall    = "PEQ"
	SizeUnit     = "UN"
)

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Product struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Prices      map[string]int64 `json:"prices"`
	Category    string           `json:"category"`
	IsActive    *bool            `json:"isActive,omitempty"`
}

// Active reports whether the product can be ordered. An unset flag means active.
func (p Product) Active() bool {
	return p.IsActive == nil || *p.IsActive
}

// PriceFor returns the price of the given size and whether the size is offered.
func (p Product) PriceFor(size string) (int64, bool) {
	price, ok := p.Prices[size]
	return price, ok
}

// Clone returns a copy that shares no maps or pointers with p.
func (p Product) Clone() Product {
	out := p
	if p.Prices != nil {
		out.Prices = make(map[string]int64, len(p.Prices))
		for k, v := range p.Prices {
			out.Prices[k] = v
		}
	}
	if p.IsActive != nil {
		active := *p.IsActive
		out.IsActive = &active
	}
	return out
}

// Bool returns a pointer to v, for optional flags such as Product.IsActive.
func Bool(v bool) *bool {
	return &v
}

type DeliveryZone struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
	Time  string `json:"time"`
}

type Extra struct {
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

type CartItem struct {
	ID            string   `json:"id"`
	UniqueID      string   `json:"uniqueId"`
	Name          string   `json:"name"`
	Price         int64    `json:"price"`
	Size          string   `json:"size"`
	Quantity      int      `json:"quantity"`
	IsHalfAndHalf bool     `json:"isHalfAndHalf,omitempty"`
	LeftHalf      *Product `json:"leftHalf,omitempty"`
	RightHalf     *Product `json:"rightHalf,omitempty"`
	Extras        []Extra  `json:"extras"`
	NeedsBox      bool     `json:"needsBox"`
}

// Clone deep-copies the item so the copy can outlive the cart it came from.
func (i CartItem) Clone() CartItem {
	out := i
	out.Extras = make([]Extra, len(i.Extras))
	copy(out.Extras, i.Extras)
	if i.LeftHalf != nil {
		left := i.LeftHalf.Clone()
		out.LeftHalf = &left
	}
	if i.RightHalf != nil {
		right := i.RightHalf.Clone()
		out.RightHalf = &right
	}
	return out
}

// CloneItems deep-copies a slice of cart items.
func CloneItems(items []CartItem) []CartItem {
	out := make([]CartItem, len(items))
	for i, item := range items {
		out[i] = item.Clone()
	}
	return out
}
