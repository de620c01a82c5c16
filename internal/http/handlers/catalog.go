package handlers

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/aniview/anime-gateway/internal/animeflv"
	"github.com/aniview/anime-gateway/internal/catalog"
	"github.com/aniview/anime-gateway/internal/models"
)

type CatalogHandler struct {
	service *catalog.Service
}

func NewCatalogHandler(service *catalog.Service) *CatalogHandler {
	return &CatalogHandler{service: service}
}

func (h *CatalogHandler) Search(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "q is required"})
	}

	items, err := h.service.Search(c.UserContext(), query)
	if err != nil {
		// Search degrades to an empty result set instead of erroring.
		slog.Warn("search degraded to empty results", "query", query, "error", err)
		return c.JSON(fiber.Map{"items": []models.Anime{}})
	}

	return c.JSON(fiber.Map{"items": items})
}

func (h *CatalogHandler) Browse(c *fiber.Ctx) error {
	genre := strings.TrimSpace(c.Query("genre", "all"))
	order := strings.TrimSpace(c.Query("order", "default"))

	items, err := h.service.Browse(c.UserContext(), genre, order)
	if err != nil {
		return failWith(c, err, "failed to browse catalog")
	}

	return c.JSON(fiber.Map{"items": items})
}

func (h *CatalogHandler) Home(c *fiber.Ctx) error {
	page, err := h.service.Home(c.UserContext())
	if err != nil {
		return failWith(c, err, "failed to load home sections")
	}

	return c.JSON(page)
}

func (h *CatalogHandler) Detail(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "anime id is required"})
	}

	detail, err := h.service.Detail(c.UserContext(), id)
	if err != nil {
		return failWith(c, err, "failed to load anime detail")
	}

	return c.JSON(detail)
}

func (h *CatalogHandler) Video(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Query("id"))
	episode := strings.TrimSpace(c.Query("ep"))
	if id == "" || episode == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "id and ep are required"})
	}
	if _, err := strconv.ParseFloat(episode, 64); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "ep must be numeric"})
	}

	servers, err := h.service.Video(c.UserContext(), id, episode)
	if err != nil {
		return failWith(c, err, "failed to resolve video servers")
	}

	return c.JSON(fiber.Map{"servers": servers})
}

func failWith(c *fiber.Ctx, err error, message string) error {
	switch {
	case errors.Is(err, animeflv.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": err.Error()})
	case errors.Is(err, animeflv.ErrUpstreamUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"message": "upstream source unavailable"})
	default:
		slog.Error("catalog request failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": message})
	}
}
