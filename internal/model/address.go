package model

// Address is the result of a postal-code lookup.
type Address struct {
	PostalCode string `json:"postal_code"`
	Street     string `json:"street"`
	District   string `json:"district"`
	City       string `json:"city"`
	State      string `json:"state"`
}
