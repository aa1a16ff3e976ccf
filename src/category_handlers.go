package main

import (
	"log"
	"net/http"

	"boletera/src/services"
	"boletera/src/types"

	"github.com/gin-gonic/gin"
)

func categoryHandlers(g *gin.RouterGroup, categories *services.CategoryService) *gin.RouterGroup {
	g.
		GET("/categories/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			category, err := categories.GetByID(ctx, params.ID)
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": category})
		}).
		GET("/events/:id/categories", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var query struct {
				OnlyAvailable bool `form:"disponibles"`
			}
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if query.OnlyAvailable {
				cats, err := categories.ListAvailable(ctx, params.ID)
				if err != nil {
					respondError(ctx, err)
					return
				}
				ctx.JSON(http.StatusOK, gin.H{"data": cats})
				return
			}
			cats, err := categories.ListByEvent(ctx, params.ID)
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": cats})
		})
	return g
}

func organizerCategoryHandlers(g *gin.RouterGroup, categories *services.CategoryService) *gin.RouterGroup {
	g.
		POST("/categories", func(ctx *gin.Context) {
			var body types.CreateCategoryRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				log.Printf("Error validating request: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			category, err := categories.Create(ctx, ctx.GetUint("id"), isAdmin(ctx), &body)
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": category})
		}).
		PUT("/categories/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.UpdateCategoryRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				log.Printf("Error validating request: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			category, err := categories.Update(ctx, params.ID, ctx.GetUint("id"), isAdmin(ctx), &body)
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": category})
		}).
		DELETE("/categories/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if err := categories.Delete(ctx, params.ID, ctx.GetUint("id"), isAdmin(ctx)); err != nil {
				respondError(ctx, err)
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}
