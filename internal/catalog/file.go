package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	apperrors "github.com/gcbaptista/go-product-search/internal/errors"
	"github.com/gcbaptista/go-product-search/model"
)

// FileSource reads the catalog from a JSON or YAML file on every call.
type FileSource struct {
	path   string
	decode func([]byte) ([]model.Product, error)
}

// NewFileSource picks a decoder from the file extension (.json, .yaml, .yml).
func NewFileSource(path string) (*FileSource, error) {
	var decode func([]byte) ([]model.Product, error)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		decode = decodeJSON
	case ".yaml", ".yml":
		decode = decodeYAML
	default:
		return nil, apperrors.NewUnsupportedCatalogError(path)
	}
	return &FileSource{path: filepath.Clean(path), decode: decode}, nil
}

// Products reads and decodes the file.
func (s *FileSource) Products(ctx context.Context) ([]model.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, apperrors.NewCatalogUnavailableError(s.path, err)
	}
	products, err := s.decode(data)
	if err != nil {
		return nil, apperrors.NewCatalogUnavailableError(s.path, err)
	}
	return products, nil
}

// envelope is the wrapped response shape some storefront deployments return.
type envelope struct {
	Products []model.Product `json:"products" yaml:"products"`
	Data     []model.Product `json:"data" yaml:"data"`
}

func (e envelope) items() []model.Product {
	if e.Products != nil {
		return e.Products
	}
	return e.Data
}

// decodeJSON accepts a bare array or an object with a products/data array.
func decodeJSON(data []byte) ([]model.Product, error) {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, fmt.Errorf("failed to decode catalog: %w", err)
		}
		return nonNil(env.items()), nil
	}

	var products []model.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	return nonNil(products), nil
}

func decodeYAML(data []byte) ([]model.Product, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	if len(node.Content) == 0 {
		return []model.Product{}, nil
	}

	root := node.Content[0]
	if root.Kind == yaml.MappingNode {
		var env envelope
		if err := root.Decode(&env); err != nil {
			return nil, fmt.Errorf("failed to decode catalog: %w", err)
		}
		return nonNil(env.items()), nil
	}

	var products []model.Product
	if err := root.Decode(&products); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	return nonNil(products), nil
}

func nonNil(products []model.Product) []model.Product {
	if products == nil {
		return []model.Product{}
	}
	return products
}
