package delivery

import (
	"net/http"
	"strconv"

	"shop_service/internal/domain"
	"shop_service/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type ProductHandler struct {
	useCase usecase.CatalogUseCase
	log     *logrus.Logger
}

func NewProductHandler(uc usecase.CatalogUseCase, logger *logrus.Logger) *ProductHandler {
	return &ProductHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *ProductHandler) RegisterRoutes(router gin.IRouter) {
	products := router.Group("/products")
	{
		products.GET("", h.ListProducts)
		products.GET("/search", h.SearchProducts)
		products.POST("/filters", h.FilterProducts)
		products.GET("/:id/related", h.ListRelated)
		products.GET("/categories", h.ListCategories)
	}
}

// ListProducts handles GET /products with query-string filters, e.g.
// /products?sortBy=sold&order=desc&limit=4 for best sellers or
// /products?sortBy=created_at&order=desc&limit=4 for new arrivals.
func (h *ProductHandler) ListProducts(c *gin.Context) {
	filter := domain.ProductFilter{
		SortBy: c.Query("sortBy"),
		Order:  c.Query("order"),
		Name:   c.Query("name"),
	}

	var err error
	if filter.Limit, err = intQuery(c, "limit"); err != nil {
		h.log.Warnf("Handler: Invalid limit parameter: %s", c.Query("limit"))
		ErrorResponse(c, http.StatusBadRequest, "Invalid limit format")
		return
	}
	if filter.Skip, err = intQuery(c, "skip"); err != nil {
		h.log.Warnf("Handler: Invalid skip parameter: %s", c.Query("skip"))
		ErrorResponse(c, http.StatusBadRequest, "Invalid skip format")
		return
	}

	if categoryStr := c.Query("category"); categoryStr != "" {
		categoryID, err := strconv.Atoi(categoryStr)
		if err != nil {
			h.log.Warnf("Handler: Invalid category parameter: %s", categoryStr)
			ErrorResponse(c, http.StatusBadRequest, "Invalid category format")
			return
		}
		filter.CategoryIDs = []int{categoryID}
	}
	if filter.PriceMin, err = floatQuery(c, "minPrice"); err != nil {
		h.log.Warnf("Handler: Invalid minPrice parameter: %s", c.Query("minPrice"))
		ErrorResponse(c, http.StatusBadRequest, "Invalid minPrice format")
		return
	}
	if filter.PriceMax, err = floatQuery(c, "maxPrice"); err != nil {
		h.log.Warnf("Handler: Invalid maxPrice parameter: %s", c.Query("maxPrice"))
		ErrorResponse(c, http.StatusBadRequest, "Invalid maxPrice format")
		return
	}

	products, err := h.useCase.ListProducts(c.Request.Context(), filter)
	if err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Errorf("Handler: Failed to list products: %v", err)
		ErrorResponse(c, statusCode, "Failed to retrieve products: "+errorMessage(err))
		return
	}

	SuccessResponse(c, http.StatusOK, "Products retrieved successfully", products)
}

// SearchProducts handles GET /products/search?search=&category=. An empty
// search term returns an empty result set.
func (h *ProductHandler) SearchProducts(c *gin.Context) {
	search := c.Query("search")

	categoryID := 0
	categoryStr := c.Query("category")
	if categoryStr != "" && categoryStr != "All" {
		var err error
		categoryID, err = strconv.Atoi(categoryStr)
		if err != nil {
			h.log.Warnf("Handler: Invalid category parameter for search: %s", categoryStr)
			ErrorResponse(c, http.StatusBadRequest, "Invalid category format")
			return
		}
	}

	products, err := h.useCase.SearchProducts(c.Request.Context(), search, categoryID)
	if err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Errorf("Handler: Failed to search products for '%s': %v", search, err)
		ErrorResponse(c, statusCode, "Failed to search products: "+errorMessage(err))
		return
	}

	SuccessResponse(c, http.StatusOK, "Products retrieved successfully", products)
}

type filterRequest struct {
	SortBy  string `json:"sortBy"`
	Order   string `json:"order"`
	Limit   int    `json:"limit"`
	Skip    int    `json:"skip"`
	Filters struct {
		Price    []float64 `json:"price"`
		Category []int     `json:"category"`
	} `json:"filters"`
}

type filterResult struct {
	Size int              `json:"size"`
	Data []domain.Product `json:"data"`
}

// FilterProducts handles POST /products/filters: a body-encoded complex
// filter with a price range, a category set, sort and window.
func (h *ProductHandler) FilterProducts(c *gin.Context) {
	var req filterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorf("Handler: Failed to bind JSON for product filters: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	filter := domain.ProductFilter{
		CategoryIDs: req.Filters.Category,
		SortBy:      req.SortBy,
		Order:       req.Order,
		Limit:       req.Limit,
		Skip:        req.Skip,
	}

	switch len(req.Filters.Price) {
	case 0:
		// No price constraint.
	case 2:
		filter.PriceMin = &req.Filters.Price[0]
		filter.PriceMax = &req.Filters.Price[1]
	default:
		h.log.Warnf("Handler: Price filter must be a [min, max] pair, got %d values", len(req.Filters.Price))
		ErrorResponse(c, http.StatusBadRequest, "Price filter must be a [min, max] pair")
		return
	}

	products, err := h.useCase.FilterProducts(c.Request.Context(), filter)
	if err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Errorf("Handler: Failed to filter products: %v", err)
		ErrorResponse(c, statusCode, "Failed to retrieve products: "+errorMessage(err))
		return
	}

	SuccessResponse(c, http.StatusOK, "Products retrieved successfully", filterResult{
		Size: len(products),
		Data: products,
	})
}

func (h *ProductHandler) ListRelated(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		h.log.Warnf("Handler: Invalid product ID parameter: %s", idStr)
		ErrorResponse(c, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	limit := 0
	if limit, err = intQuery(c, "limit"); err != nil {
		h.log.Warnf("Handler: Invalid limit parameter: %s", c.Query("limit"))
		ErrorResponse(c, http.StatusBadRequest, "Invalid limit format")
		return
	}

	products, err := h.useCase.ListRelated(c.Request.Context(), id, limit)
	if err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Warnf("Handler: Failed to list related products for ID %d: %v", id, err)
		ErrorResponse(c, statusCode, "Failed to retrieve related products: "+errorMessage(err))
		return
	}

	SuccessResponse(c, http.StatusOK, "Related products retrieved successfully", products)
}

func (h *ProductHandler) ListCategories(c *gin.Context) {
	ids, err := h.useCase.ListCategories(c.Request.Context())
	if err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Errorf("Handler: Failed to list categories: %v", err)
		ErrorResponse(c, statusCode, "Failed to retrieve categories: "+errorMessage(err))
		return
	}

	SuccessResponse(c, http.StatusOK, "Categories retrieved successfully", ids)
}

func intQuery(c *gin.Context, name string) (int, error) {
	value := c.Query(name)
	if value == "" {
		return 0, nil
	}
	return strconv.Atoi(value)
}

func floatQuery(c *gin.Context, name string) (*float64, error) {
	value := c.Query(name)
	if value == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
