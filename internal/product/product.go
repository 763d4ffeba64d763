// Package product defines the product record, its editable draft and the validation gate.
package product

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Product is one record of the /produtos collection. ID is zero until the remote
// store assigns one; once assigned it never changes.
type Product struct {
	ID          int64  `json:"id,omitempty"`
	Name        string `json:"nome"`
	Description string `json:"descricao"`
	Price       string `json:"preco"`
}

// HasID reports whether the remote store has assigned an id.
func (p Product) HasID() bool {
	return p.ID > 0
}

// Draft returns the editable fields of p.
func (p Product) Draft() Draft {
	return Draft{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
	}
}

// UnmarshalJSON accepts preco both as a JSON string and as a JSON number, since
// backends are free to store what they were sent.
func (p *Product) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID          int64           `json:"id"`
		Name        string          `json:"nome"`
		Description string          `json:"descricao"`
		Price       json.RawMessage `json:"preco"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	price, err := decodePrice(raw.Price)
	if err != nil {
		return err
	}
	*p = Product{
		ID:          raw.ID,
		Name:        raw.Name,
		Description: raw.Description,
		Price:       price,
	}
	return nil
}

func decodePrice(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", fmt.Errorf("invalid preco: %w", err)
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("invalid preco: %w", err)
	}
	return n.String(), nil
}

// Draft is the field set a user submits: the product without its id.
type Draft struct {
	Name        string `json:"nome"      validate:"min=3"`
	Description string `json:"descricao" validate:"min=5"`
	Price       string `json:"preco"     validate:"preco"`
}

// Product returns the draft as a product carrying id.
func (d Draft) Product(id int64) Product {
	return Product{
		ID:          id,
		Name:        d.Name,
		Description: d.Description,
		Price:       d.Price,
	}
}

// IsZero reports whether every field is empty.
func (d Draft) IsZero() bool {
	return d == Draft{}
}
