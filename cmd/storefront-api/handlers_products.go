package main

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/heyireeh/storefront-api/internal/product"
)

// listProductsHandler serves the paginated, filtered, sorted catalog.
//
//	@Summary  List products
//	@Tags     products
//	@Produce  json
//	@Param    category query string false "category id, or All"
//	@Param    search   query string false "name substring, case-insensitive"
//	@Param    sort     query string false "newest | price-low | price-high"
//	@Param    page     query int    false "1-based page"
//	@Success  200 {object} product.ListResponse
//	@Router   /products [get]
func listProductsHandler(products product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := product.Query{
			CategoryID: c.Query("category"),
			Search:     c.Query("search"),
			Sort:       c.Query("sort"),
		}
		if q.CategoryID == "All" {
			q.CategoryID = ""
		}
		q.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
		if q.Page < 1 {
			q.Page = 1
		}

		items, total, err := products.List(c.Request.Context(), q)
		if err != nil {
			fail(c, http.StatusInternalServerError, "could not list products")
			return
		}
		if items == nil {
			items = []product.Product{}
		}
		totalPages := (total + product.PageSize - 1) / product.PageSize
		c.JSON(http.StatusOK, product.ListResponse{
			Products:      items,
			CurrentPage:   q.Page,
			TotalPages:    totalPages,
			TotalProducts: total,
		})
	}
}

// getProductHandler returns a single product with its category name attached.
//
//	@Summary  Get a product
//	@Tags     products
//	@Produce  json
//	@Param    id path string true "product id"
//	@Success  200 {object} product.Product
//	@Failure  404 {object} product.HTTPError
//	@Router   /products/{id} [get]
func getProductHandler(products product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := products.GetByID(c.Request.Context(), c.Param("id"))
		if err == product.ErrNotFound {
			fail(c, http.StatusNotFound, "product not found")
			return
		}
		if err != nil {
			fail(c, http.StatusInternalServerError, "could not load product")
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// createProductHandler is admin only.
//
//	@Summary  Create a product
//	@Tags     products
//	@Accept   json
//	@Produce  json
//	@Param    body body product.CreateProductRequest true "product"
//	@Success  201 {object} product.Product
//	@Failure  400 {object} product.HTTPError
//	@Security BearerAuth
//	@Router   /products [post]
func createProductHandler(products product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req product.CreateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "invalid json")
			return
		}
		if req.Name == "" || req.Price == "" {
			fail(c, http.StatusBadRequest, "name and price are required")
			return
		}
		price, err := decimal.NewFromString(req.Price)
		if err != nil || price.IsNegative() {
			fail(c, http.StatusBadRequest, "invalid price")
			return
		}
		if req.Stock < 0 {
			fail(c, http.StatusBadRequest, "stock must be non-negative")
			return
		}
		p := &product.Product{
			ID:          uuid.NewString(),
			Name:        req.Name,
			Description: req.Description,
			Price:       price.StringFixed(2),
			Stock:       req.Stock,
			CategoryID:  req.CategoryID,
			SubCategory: req.SubCategory,
			ImageURL:    req.ImageURL,
		}
		if err := products.Create(c.Request.Context(), p); err != nil {
			fail(c, http.StatusBadRequest, "could not create product")
			return
		}
		c.JSON(http.StatusCreated, p)
	}
}

// updateProductHandler is admin only. Blank fields keep their current value;
// historical order snapshots are never touched.
//
//	@Summary  Update a product
//	@Tags     products
//	@Accept   json
//	@Produce  json
//	@Param    id   path string true "product id"
//	@Param    body body product.UpdateProductRequest true "fields to change"
//	@Success  200 {object} product.Product
//	@Failure  404 {object} product.HTTPError
//	@Security BearerAuth
//	@Router   /products/{id} [put]
func updateProductHandler(products product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req product.UpdateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "invalid json")
			return
		}
		updatePrice := req.Price != ""
		if updatePrice {
			price, err := decimal.NewFromString(req.Price)
			if err != nil || price.IsNegative() {
				fail(c, http.StatusBadRequest, "invalid price")
				return
			}
			req.Price = price.StringFixed(2)
		}
		updateStock := req.Stock != nil
		stock := 0
		if updateStock {
			if *req.Stock < 0 {
				fail(c, http.StatusBadRequest, "stock must be non-negative")
				return
			}
			stock = *req.Stock
		}
		p := &product.Product{
			ID:          c.Param("id"),
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price,
			Stock:       stock,
			CategoryID:  req.CategoryID,
			SubCategory: req.SubCategory,
			ImageURL:    req.ImageURL,
		}
		if err := products.Update(c.Request.Context(), p, updatePrice, updateStock); err != nil {
			if err == product.ErrNotFound {
				fail(c, http.StatusNotFound, "product not found")
				return
			}
			fail(c, http.StatusInternalServerError, "could not update product")
			return
		}
		out, err := products.GetByID(c.Request.Context(), p.ID)
		if err != nil {
			fail(c, http.StatusInternalServerError, "could not reload product")
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// deleteProductHandler is admin only.
//
//	@Summary  Delete a product
//	@Tags     products
//	@Produce  json
//	@Param    id path string true "product id"
//	@Success  200 {object} map[string]string
//	@Failure  404 {object} product.HTTPError
//	@Security BearerAuth
//	@Router   /products/{id} [delete]
func deleteProductHandler(products product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := products.Delete(c.Request.Context(), c.Param("id"))
		if err != nil {
			fail(c, http.StatusInternalServerError, "could not delete product")
			return
		}
		if !ok {
			fail(c, http.StatusNotFound, "product not found")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "product deleted successfully"})
	}
}
