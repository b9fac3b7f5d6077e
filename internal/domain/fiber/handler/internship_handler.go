package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/jadhavaryan403/AI-Internship-Recommender/internal/usecase"
	"github.com/jadhavaryan403/AI-Internship-Recommender/internal/util"
)

type InternshipHandler struct {
	catalog *usecase.CatalogUsecase
	resume  *usecase.ResumeUsecase
}

func NewInternshipHandler(catalog *usecase.CatalogUsecase, resume *usecase.ResumeUsecase) *InternshipHandler {
	return &InternshipHandler{catalog: catalog, resume: resume}
}

func (h *InternshipHandler) RegisterRoutes(app *fiber.App) {
	app.Get("/internships", h.List)
	app.Get("/internships/:id", h.Detail)
}

func (h *InternshipHandler) List(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("page_size", "20"))

	result, err := h.catalog.List(c.Query("q"), c.Query("location"), page, pageSize)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to list internships",
		}, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message:    "Success get internships",
		Data:       result.Internships,
		Pagination: result.Pagination,
		Meta:       fiber.Map{"cities": result.Cities},
	})
}

// Detail returns one active posting; when the caller has a profile, their
// match score and skill partition for this posting ride along.
func (h *InternshipHandler) Detail(c *fiber.Ctx) error {
	id := c.Params("id")

	internship, err := h.catalog.Detail(id)
	if err != nil {
		if errors.Is(err, usecase.ErrInternshipNotFound) {
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    fiber.StatusNotFound,
				Message: "internship not found",
			})
		}
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to get internship",
		}, err)
	}

	data := fiber.Map{"internship": internship}
	if userID := requesterID(c); userID != "" {
		match, err := h.resume.MatchForInternship(c.UserContext(), userID, id)
		if err == nil && match != nil {
			data["match"] = match
		}
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get internship",
		Data:    data,
	})
}
