package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/heyireeh/storefront-api/internal/category"
)

// listCategoriesHandler serves the shop sidebar.
//
//	@Summary  List categories
//	@Tags     categories
//	@Produce  json
//	@Success  200 {array} category.Category
//	@Router   /categories [get]
func listCategoriesHandler(categories category.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := categories.List(c.Request.Context())
		if err != nil {
			fail(c, http.StatusInternalServerError, "could not list categories")
			return
		}
		if out == nil {
			out = []category.Category{}
		}
		c.JSON(http.StatusOK, out)
	}
}

// createCategoryHandler is admin only.
//
//	@Summary  Create a category
//	@Tags     categories
//	@Accept   json
//	@Produce  json
//	@Param    body body category.UpsertCategoryRequest true "category"
//	@Success  201 {object} category.Category
//	@Failure  409 {object} product.HTTPError
//	@Security BearerAuth
//	@Router   /categories [post]
func createCategoryHandler(categories category.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req category.UpsertCategoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "invalid json")
			return
		}
		if req.Name == "" {
			fail(c, http.StatusBadRequest, "name is required")
			return
		}
		if req.SubCategories == nil {
			req.SubCategories = []string{}
		}
		cat := &category.Category{
			ID:            uuid.NewString(),
			Name:          req.Name,
			SubCategories: req.SubCategories,
		}
		if err := categories.Create(c.Request.Context(), cat); err != nil {
			if err == category.ErrAlreadyExist {
				fail(c, http.StatusConflict, "category already exists")
				return
			}
			fail(c, http.StatusInternalServerError, "could not create category")
			return
		}
		c.JSON(http.StatusCreated, cat)
	}
}

// updateCategoryHandler is admin only.
//
//	@Summary  Update a category
//	@Tags     categories
//	@Accept   json
//	@Produce  json
//	@Param    id   path string true "category id"
//	@Param    body body category.UpsertCategoryRequest true "category"
//	@Success  200 {object} category.Category
//	@Failure  404 {object} product.HTTPError
//	@Security BearerAuth
//	@Router   /categories/{id} [put]
func updateCategoryHandler(categories category.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req category.UpsertCategoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "invalid json")
			return
		}
		if req.SubCategories == nil {
			req.SubCategories = []string{}
		}
		cat := &category.Category{
			ID:            c.Param("id"),
			Name:          req.Name,
			SubCategories: req.SubCategories,
		}
		if err := categories.Update(c.Request.Context(), cat); err != nil {
			if err == category.ErrNotFound {
				fail(c, http.StatusNotFound, "category not found")
				return
			}
			fail(c, http.StatusInternalServerError, "could not update category")
			return
		}
		out, err := categories.GetByID(c.Request.Context(), cat.ID)
		if err != nil {
			fail(c, http.StatusInternalServerError, "could not reload category")
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// deleteCategoryHandler is admin only. Deletion is refused while any product
// still references the category.
//
//	@Summary  Delete a category
//	@Tags     categories
//	@Produce  json
//	@Param    id path string true "category id"
//	@Success  200 {object} map[string]string
//	@Failure  404 {object} product.HTTPError
//	@Failure  409 {object} product.HTTPError
//	@Security BearerAuth
//	@Router   /categories/{id} [delete]
func deleteCategoryHandler(categories category.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := categories.Delete(c.Request.Context(), c.Param("id"))
		switch err {
		case nil:
			c.JSON(http.StatusOK, gin.H{"message": "category deleted successfully"})
		case category.ErrNotFound:
			fail(c, http.StatusNotFound, "category not found")
		case category.ErrInUse:
			fail(c, http.StatusConflict, "category is referenced by products")
		default:
			fail(c, http.StatusInternalServerError, "could not delete category")
		}
	}
}
