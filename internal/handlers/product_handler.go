package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/Lixing-Zhang/beerstyle-api/internal/repository"
	"github.com/Lixing-Zhang/beerstyle-api/internal/service"
	"github.com/go-chi/chi/v5"
)

const (
	msgProductNotFound = "Product not found!"
	msgInvalidBody     = "Invalid request body"
	msgInternalError   = "Internal server error"

	maxBodyBytes = 100 << 10
)

var errInvalidBody = errors.New("request body must be a JSON object")

// ProductHandler handles product-related HTTP requests
type ProductHandler struct {
	service *service.ProductService
	logger  *slog.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(service *service.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger,
	}
}

// ListProducts handles GET /products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListProducts(r.Context())
	if err != nil {
		h.logger.Error("failed to list products", "error", err)
		WriteMessage(w, http.StatusInternalServerError, msgInternalError, h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, products, h.logger)
}

// GetProduct handles GET /products/{productId}
// - 200: full record
// - 404: no product with that id
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	rawID := chi.URLParam(r, "productId")

	id, ok := parseProductID(rawID)
	if !ok {
		h.logger.Info("product not found", "productId", rawID)
		WriteMessage(w, http.StatusNotFound, msgProductNotFound, h.logger)
		return
	}

	product, err := h.service.GetProduct(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, "failed to get product", id, err)
		return
	}

	WriteJSON(w, http.StatusOK, product, h.logger)
}

// CreateProduct handles POST /products
// - 201: the stored record with its new id
// - 400: malformed body or missing required fields
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(w, r)
	if err != nil {
		h.logger.Warn("failed to decode product body", "error", err)
		WriteMessage(w, http.StatusBadRequest, msgInvalidBody, h.logger)
		return
	}

	product, err := h.service.CreateProduct(r.Context(), body)
	if err != nil {
		var validationErr *service.ValidationError
		if errors.As(err, &validationErr) {
			h.logger.Info("product rejected", "missing", validationErr.Missing)
			WriteMessage(w, http.StatusBadRequest, validationErr.Error(), h.logger)
			return
		}

		h.logger.Error("failed to create product", "error", err)
		WriteMessage(w, http.StatusInternalServerError, msgInternalError, h.logger)
		return
	}

	h.logger.Info("product created", "productId", product.ID)
	WriteJSON(w, http.StatusCreated, product, h.logger)
}

// UpdateProduct handles PUT /products/{productId}
// - 200: the merged record
// - 400: malformed body
// - 404: no product with that id
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	rawID := chi.URLParam(r, "productId")

	id, ok := parseProductID(rawID)
	if !ok {
		h.logger.Info("product not found", "productId", rawID)
		WriteMessage(w, http.StatusNotFound, msgProductNotFound, h.logger)
		return
	}

	body, err := decodeBody(w, r)
	if err != nil {
		h.logger.Warn("failed to decode product body", "productId", id, "error", err)
		WriteMessage(w, http.StatusBadRequest, msgInvalidBody, h.logger)
		return
	}

	product, err := h.service.UpdateProduct(r.Context(), id, body)
	if err != nil {
		h.writeServiceError(w, "failed to update product", id, err)
		return
	}

	h.logger.Info("product updated", "productId", id, "fields", len(body))
	WriteJSON(w, http.StatusOK, product, h.logger)
}

func (h *ProductHandler) writeServiceError(w http.ResponseWriter, msg string, id int64, err error) {
	if errors.Is(err, repository.ErrProductNotFound) {
		h.logger.Info("product not found", "productId", id)
		WriteMessage(w, http.StatusNotFound, msgProductNotFound, h.logger)
		return
	}

	h.logger.Error(msg, "productId", id, "error", err)
	WriteMessage(w, http.StatusInternalServerError, msgInternalError, h.logger)
}

// parseProductID turns a path segment into an id.
// Surrounding spaces, leading zeros and integral floats such as "67.0" are accepted.
func parseProductID(raw string) (int64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}

	if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return id, true
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) {
		return 0, false
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

// decodeBody reads a JSON object body. An empty body is an empty object.
func decodeBody(w http.ResponseWriter, r *http.Request) (map[string]json.RawMessage, error) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))

	var body map[string]json.RawMessage
	if err := dec.Decode(&body); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]json.RawMessage{}, nil
		}
		return nil, err
	}
	if body == nil {
		return nil, errInvalidBody
	}
	if dec.More() {
		return nil, errInvalidBody
	}

	return body, nil
}
