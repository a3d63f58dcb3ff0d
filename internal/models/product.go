package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Product represents a beer style record in the catalog.
// Only the id is typed; every other key is kept verbatim so records
// round-trip exactly as they were loaded or submitted.
type Product struct {
	ID     int64
	Fields map[string]json.RawMessage
}

// ProductSummary is the reduced shape returned by the list endpoint
type ProductSummary struct {
	ID         int64           `json:"id"`
	CategoryID json.RawMessage `json:"categoryId,omitempty"`
	Name       json.RawMessage `json:"name,omitempty"`
	ShortName  json.RawMessage `json:"shortName,omitempty"`
	Details    string          `json:"details"`
}

// NewProduct builds a product from an id and a set of raw fields.
// An "id" key in fields is dropped; the id is owned by the server.
func NewProduct(id int64, fields map[string]json.RawMessage) Product {
	p := Product{ID: id, Fields: make(map[string]json.RawMessage, len(fields))}
	for k, v := range fields {
		if k == "id" {
			continue
		}
		p.Fields[k] = v
	}
	return p
}

// Summary projects the product onto the list shape
func (p Product) Summary() ProductSummary {
	return ProductSummary{
		ID:         p.ID,
		CategoryID: p.Fields["categoryId"],
		Name:       p.Fields["name"],
		ShortName:  p.Fields["shortName"],
		Details:    DetailsPath(p.ID),
	}
}

// Merge returns a copy of p with the keys of patch replacing its own.
// The merge is shallow: nested objects are replaced, never combined.
func (p Product) Merge(patch map[string]json.RawMessage) Product {
	merged := NewProduct(p.ID, p.Fields)
	for k, v := range patch {
		if k == "id" {
			continue
		}
		merged.Fields[k] = v
	}
	return merged
}

// Clone returns a deep copy so callers cannot mutate stored records
func (p Product) Clone() Product {
	c := Product{ID: p.ID, Fields: make(map[string]json.RawMessage, len(p.Fields))}
	for k, v := range p.Fields {
		c.Fields[k] = append(json.RawMessage(nil), v...)
	}
	return c
}

// MarshalJSON writes the product as a flat object with its id
func (p Product) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(p.Fields)+1)
	for k, v := range p.Fields {
		out[k] = v
	}
	out["id"] = json.RawMessage(strconv.FormatInt(p.ID, 10))
	return json.Marshal(out)
}

// UnmarshalJSON reads a flat object; the id must be an integer
func (p *Product) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if fields == nil {
		return fmt.Errorf("product must be a JSON object")
	}

	rawID, ok := fields["id"]
	if !ok {
		return fmt.Errorf("product is missing an id")
	}
	id, err := parseRawID(rawID)
	if err != nil {
		return err
	}

	*p = NewProduct(id, fields)
	return nil
}

// DetailsPath returns the path of the detail endpoint for a product
func DetailsPath(id int64) string {
	return "/products/" + strconv.FormatInt(id, 10)
}

func parseRawID(raw json.RawMessage) (int64, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return 0, fmt.Errorf("invalid product id %s: %w", raw, err)
	}

	n, ok := v.(json.Number)
	if !ok {
		return 0, fmt.Errorf("invalid product id %s: not a number", raw)
	}
	id, err := n.Int64()
	if err != nil {
		return 0, fmt.Errorf("invalid product id %s: not an integer", raw)
	}
	return id, nil
}
