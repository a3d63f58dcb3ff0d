package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/Lixing-Zhang/beerstyle-api/internal/models"
	"github.com/Lixing-Zhang/beerstyle-api/internal/repository"
	"github.com/go-playground/validator/v10"
)

// ValidationError reports the fields a create request was missing
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("Missing fields: %s", strings.Join(e.Missing, ", "))
}

// createProductInput lists the fields a new product must carry.
// A field counts as missing when it is absent, null, "", 0 or false.
type createProductInput struct {
	Name      interface{} `json:"name" validate:"truthy"`
	ShortName interface{} `json:"shortName" validate:"truthy"`
	Category  interface{} `json:"category" validate:"truthy"`
}

// isTruthy runs only for non-nil values; nil fails the tag on its own.
// Objects and arrays are always present, scalars must be non-zero.
func isTruthy(fl validator.FieldLevel) bool {
	field := fl.Field()
	switch field.Kind() {
	case reflect.Map, reflect.Slice:
		return true
	case reflect.Invalid:
		return false
	default:
		return !field.IsZero()
	}
}

// ProductService handles business logic for products
type ProductService struct {
	repo     repository.ProductRepository
	validate *validator.Validate
}

// NewProductService creates a new product service
func NewProductService(repo repository.ProductRepository) *ProductService {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = validate.RegisterValidation("truthy", isTruthy)

	return &ProductService{
		repo:     repo,
		validate: validate,
	}
}

// ListProducts returns the summary of every product
func (s *ProductService) ListProducts(ctx context.Context) ([]models.ProductSummary, error) {
	products, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.ProductSummary, 0, len(products))
	for _, p := range products {
		summaries = append(summaries, p.Summary())
	}
	return summaries, nil
}

// GetProduct returns a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateProduct checks the required fields and stores the body as a new product
func (s *ProductService) CreateProduct(ctx context.Context, body map[string]json.RawMessage) (*models.Product, error) {
	if err := s.checkRequired(body); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, body)
}

// UpdateProduct merges every key of body onto an existing product
func (s *ProductService) UpdateProduct(ctx context.Context, id int64, body map[string]json.RawMessage) (*models.Product, error) {
	return s.repo.Update(ctx, id, body)
}

// CountProducts returns the size of the catalog
func (s *ProductService) CountProducts(ctx context.Context) int {
	return s.repo.Count(ctx)
}

func (s *ProductService) checkRequired(body map[string]json.RawMessage) error {
	var input createProductInput
	targets := map[string]*interface{}{
		"name":      &input.Name,
		"shortName": &input.ShortName,
		"category":  &input.Category,
	}
	for key, target := range targets {
		raw, ok := body[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, target); err != nil {
			return fmt.Errorf("decode %s: %w", key, err)
		}
	}

	err := s.validate.Struct(input)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("validate product: %w", err)
	}

	missing := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		missing = append(missing, e.Field())
	}
	return &ValidationError{Missing: missing}
}
