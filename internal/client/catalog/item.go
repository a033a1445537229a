package catalog

import "strconv"

// Rating is the aggregate customer rating of an Item.
type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// Item is one product as returned by the catalog API.
type Item struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Price       float64 `json:"price"`
	Rating      Rating  `json:"rating"`
	Category    string  `json:"category"`
}

// Key is the identifying key used for stable iteration.
func (i Item) Key() string {
	return strconv.Itoa(i.ID)
}
