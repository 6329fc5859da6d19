package controllers

import (
	"municipal-portal-backend/bleve/repositories"

	"github.com/gofiber/fiber/v2"
)

type SearchController struct {
	repo repositories.BleveRepositoryInterface
}

func NewSearchController(repo repositories.BleveRepositoryInterface) *SearchController {
	return &SearchController{repo: repo}
}

// SearchApplicationsController answers the admin quick-search box. The
// stored fields on each hit are returned directly.
func (c *SearchController) SearchApplicationsController(ctx *fiber.Ctx) error {
	query := ctx.Query("q")
	if query == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Search query is required",
			"error":   "q parameter is empty",
		})
	}

	size := ctx.QueryInt("size", 20)
	if size < 1 || size > 100 {
		size = 20
	}

	results, err := c.repo.SearchApplications(query, size)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Search failed",
			"error":   err.Error(),
		})
	}

	matches := make([]interface{}, 0, len(results.Hits))
	for _, hit := range results.Hits {
		matches = append(matches, hit.Fields)
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"message": "Search completed",
		"data": fiber.Map{
			"results": matches,
			"total":   results.Total,
		},
	})
}
