package docstore

import "encoding/json"

// Query is a single filter, order, or limit directive encoded into the
// documents listing endpoint's queries[] parameter.
type Query struct {
	Method    string        `json:"method"`
	Attribute string        `json:"attribute,omitempty"`
	Values    []interface{} `json:"values,omitempty"`
}

// Encode serializes the query to its wire form
func (q Query) Encode() (string, error) {
	raw, err := json.Marshal(q)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// Equal matches documents whose attribute equals value
func Equal(attribute string, value interface{}) Query {
	return Query{Method: "equal", Attribute: attribute, Values: []interface{}{value}}
}

// GreaterThanEqual matches documents whose attribute is >= value
func GreaterThanEqual(attribute string, value interface{}) Query {
	return Query{Method: "greaterThanEqual", Attribute: attribute, Values: []interface{}{value}}
}

// LessThanEqual matches documents whose attribute is <= value
func LessThanEqual(attribute string, value interface{}) Query {
	return Query{Method: "lessThanEqual", Attribute: attribute, Values: []interface{}{value}}
}

// OrderAsc sorts results ascending by attribute
func OrderAsc(attribute string) Query {
	return Query{Method: "orderAsc", Attribute: attribute}
}

// OrderDesc sorts results descending by attribute
func OrderDesc(attribute string) Query {
	return Query{Method: "orderDesc", Attribute: attribute}
}

// Limit caps the number of returned documents
func Limit(n int) Query {
	return Query{Method: "limit", Values: []interface{}{n}}
}
