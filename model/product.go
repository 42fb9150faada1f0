package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Searchable field names. These are also the keys of SearchOptions.FieldWeights.
const (
	FieldName         = "name"
	FieldDescription  = "description"
	FieldCategory     = "category"
	FieldTags         = "tags"
	FieldManufacturer = "manufacturer"
	FieldColour       = "colour"
	FieldMaterial     = "material"
)

// SearchableFieldNames lists the searchable fields in scoring order.
var SearchableFieldNames = []string{
	FieldName,
	FieldDescription,
	FieldCategory,
	FieldTags,
	FieldManufacturer,
	FieldColour,
	FieldMaterial,
}

// Product is a catalog record as served by the storefront API.
// Products are immutable once handed to the search engine.
type Product struct {
	ID              int         `json:"productId" yaml:"productId"`
	Name            string      `json:"productName" yaml:"productName"`
	Description     string      `json:"description,omitempty" yaml:"description,omitempty"`
	Category        CategoryRef `json:"categoryId" yaml:"categoryId"`
	CategoryName    string      `json:"categoryName,omitempty" yaml:"categoryName,omitempty"` // flat alternative to Category.Name
	Tags            string      `json:"tags,omitempty" yaml:"tags,omitempty"`
	Manufacturer    string      `json:"manufacturer,omitempty" yaml:"manufacturer,omitempty"`
	Colour          string      `json:"colour,omitempty" yaml:"colour,omitempty"`
	Material        string      `json:"material,omitempty" yaml:"material,omitempty"`
	Price           float64     `json:"price,omitempty" yaml:"price,omitempty"`
	DiscountedPrice float64     `json:"discountedPrice,omitempty" yaml:"discountedPrice,omitempty"`
	FeatureImage    string      `json:"featureImage,omitempty" yaml:"featureImage,omitempty"`
	InStock         bool        `json:"inStock,omitempty" yaml:"inStock,omitempty"`
}

// Field is a named searchable value of a product.
type Field struct {
	Name  string
	Value string
}

// ResolvedCategoryName returns the category name from the nested category object,
// falling back to the flat categoryName field, or "" when neither is present.
func (p Product) ResolvedCategoryName() string {
	if p.Category.Name != "" {
		return p.Category.Name
	}
	return p.CategoryName
}

// ResolvedTags returns the product tags, synthesised from manufacturer, colour and
// material when the record carries none.
func (p Product) ResolvedTags() string {
	if strings.TrimSpace(p.Tags) != "" {
		return p.Tags
	}
	parts := make([]string, 0, 3)
	for _, v := range []string{p.Manufacturer, p.Colour, p.Material} {
		if v = strings.TrimSpace(v); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " ")
}

// SearchableFields returns the product's searchable values in SearchableFieldNames order.
// Missing values are empty strings.
func (p Product) SearchableFields() []Field {
	return []Field{
		{Name: FieldName, Value: p.Name},
		{Name: FieldDescription, Value: p.Description},
		{Name: FieldCategory, Value: p.ResolvedCategoryName()},
		{Name: FieldTags, Value: p.ResolvedTags()},
		{Name: FieldManufacturer, Value: p.Manufacturer},
		{Name: FieldColour, Value: p.Colour},
		{Name: FieldMaterial, Value: p.Material},
	}
}

// CategoryRef is the category reference of a product. The storefront API sends
// it either as a nested object ({"categoryId": 3, "categoryName": "Men"}), as a
// bare name string, or as a bare numeric id. All shapes are resolved here so the
// scorer only ever sees a plain name. Unrecognised shapes resolve to the zero value.
type CategoryRef struct {
	ID   int
	Name string
}

type categoryObject struct {
	ID   int    `json:"categoryId" yaml:"categoryId"`
	Name string `json:"categoryName" yaml:"categoryName"`
}

// MarshalJSON always emits the nested object shape.
func (c CategoryRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(categoryObject{ID: c.ID, Name: c.Name})
}

// UnmarshalJSON resolves the object, string and numeric shapes.
func (c *CategoryRef) UnmarshalJSON(data []byte) error {
	*c = CategoryRef{}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	switch trimmed[0] {
	case '{':
		var obj categoryObject
		if err := json.Unmarshal(trimmed, &obj); err == nil {
			c.ID, c.Name = obj.ID, obj.Name
		}
	case '"':
		var name string
		if err := json.Unmarshal(trimmed, &name); err == nil {
			c.Name = name
		}
	default:
		var id int
		if err := json.Unmarshal(trimmed, &id); err == nil {
			c.ID = id
		}
	}
	return nil
}

// MarshalYAML emits the nested object shape.
func (c CategoryRef) MarshalYAML() (interface{}, error) {
	return categoryObject{ID: c.ID, Name: c.Name}, nil
}

// UnmarshalYAML resolves the mapping and scalar shapes.
func (c *CategoryRef) UnmarshalYAML(node *yaml.Node) error {
	*c = CategoryRef{}

	switch node.Kind {
	case yaml.MappingNode:
		var obj categoryObject
		if err := node.Decode(&obj); err == nil {
			c.ID, c.Name = obj.ID, obj.Name
		}
	case yaml.ScalarNode:
		if node.Tag == "!!int" {
			if id, err := strconv.Atoi(node.Value); err == nil {
				c.ID = id
			}
			return nil
		}
		if node.Tag != "!!null" {
			c.Name = node.Value
		}
	}
	return nil
}
