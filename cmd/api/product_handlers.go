package main

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/agrovia/agrovia/internal/auth"
	"github.com/agrovia/agrovia/internal/policy"
	"github.com/agrovia/agrovia/internal/product"
)

// listProductsHandler serves the public catalog page with category/keyword
// filters and 1-based pagination.
func listProductsHandler(products product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
		q := product.Query{
			Category: c.Query("category"),
			Keyword:  c.Query("keyword"),
			Page:     page,
			Limit:    limit,
		}
		items, total, err := products.List(c.Request.Context(), q)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list products"})
			return
		}
		if page < 1 {
			page = 1
		}
		if limit <= 0 || limit > 100 {
			limit = 50
		}
		pages := (total + limit - 1) / limit
		c.JSON(http.StatusOK, product.ListResponse{Products: items, Page: page, Pages: pages, Total: total})
	}
}

func getProductHandler(products product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := products.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func myProductsHandler(products product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := auth.CurrentUser(c)
		items, err := products.ListByFarmer(c.Request.Context(), actor.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list products"})
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

func createProductHandler(products product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req product.CreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if !product.ValidCategory(req.Category) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category"})
			return
		}
		price, err := decimal.NewFromString(req.Price)
		if err != nil || price.IsNegative() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "price must be a non-negative number"})
			return
		}
		if *req.Stock < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "stock cannot be negative"})
			return
		}

		p := &product.Product{
			ID:          uuid.NewString(),
			FarmerID:    auth.CurrentUser(c).ID, // owner is always the actor
			Title:       req.Title,
			Description: req.Description,
			Price:       price,
			Category:    req.Category,
			Images:      req.Images,
			Stock:       *req.Stock,
			Unit:        req.Unit,
		}
		if err := products.Create(c.Request.Context(), p); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create product"})
			return
		}
		created, err := products.GetByID(c.Request.Context(), p.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create product"})
			return
		}
		c.JSON(http.StatusCreated, created)
	}
}

func updateProductHandler(products product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := products.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		if !policy.CanManageProduct(auth.CurrentUser(c), p) {
			c.JSON(http.StatusForbidden, gin.H{"error": "not authorized to update this product"})
			return
		}

		var req product.UpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if req.Title != nil {
			if *req.Title == "" || len(*req.Title) > 100 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "title must be 1-100 characters"})
				return
			}
			p.Title = *req.Title
		}
		if req.Description != nil {
			if *req.Description == "" || len(*req.Description) > 500 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "description must be 1-500 characters"})
				return
			}
			p.Description = *req.Description
		}
		if req.Price != nil {
			price, err := decimal.NewFromString(*req.Price)
			if err != nil || price.IsNegative() {
				c.JSON(http.StatusBadRequest, gin.H{"error": "price must be a non-negative number"})
				return
			}
			p.Price = price
		}
		if req.Category != nil {
			if !product.ValidCategory(*req.Category) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category"})
				return
			}
			p.Category = *req.Category
		}
		if req.Images != nil {
			p.Images = req.Images
		}
		if req.Stock != nil {
			if *req.Stock < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "stock cannot be negative"})
				return
			}
			p.Stock = *req.Stock
		}
		if req.Unit != nil {
			if *req.Unit == "" || len(*req.Unit) > 20 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "unit must be 1-20 characters"})
				return
			}
			p.Unit = *req.Unit
		}

		if err := products.Update(c.Request.Context(), p); err != nil {
			if err == product.ErrNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update product"})
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// deleteProductHandler removes a listing. Historical orders keep their
// snapshot of it.
func deleteProductHandler(products product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := products.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		if !policy.CanManageProduct(auth.CurrentUser(c), p) {
			c.JSON(http.StatusForbidden, gin.H{"error": "not authorized to delete this product"})
			return
		}
		ok, err := products.Delete(c.Request.Context(), p.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete product"})
			return
		}
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "product removed"})
	}
}
