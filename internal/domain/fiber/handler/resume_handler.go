package handler

import (
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jadhavaryan403/AI-Internship-Recommender/internal/middleware"
	"github.com/jadhavaryan403/AI-Internship-Recommender/internal/usecase"
	"github.com/jadhavaryan403/AI-Internship-Recommender/internal/util"
)

const maxResumeSize = 5 * 1024 * 1024

type ResumeHandler struct {
	uc        *usecase.ResumeUsecase
	uploadDir string
}

func NewResumeHandler(uc *usecase.ResumeUsecase, uploadDir string) *ResumeHandler {
	if uploadDir == "" {
		uploadDir = "./uploads/resumes/"
	}
	return &ResumeHandler{uc: uc, uploadDir: uploadDir}
}

func (h *ResumeHandler) RegisterRoutes(app *fiber.App) {
	app.Post("/resume", middleware.RateLimiter(1, 4*time.Second), h.Upload)
	app.Get("/matches", h.Matches)
	app.Put("/skills", h.UpdateSkills)
}

// Upload receives a PDF resume, extracts its text and runs the profile
// pipeline. Extraction problems are the user's to fix; structuring
// problems degrade inside the usecase and never fail the request.
func (h *ResumeHandler) Upload(c *fiber.Ctx) error {
	userID := requesterID(c)
	if userID == "" {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "user_id is required",
		})
	}

	file, err := c.FormFile("resume")
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "resume file is required",
		}, err)
	}
	if file.Size > maxResumeSize {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "resume file size is too large (max 5MB)",
		})
	}
	if strings.ToLower(filepath.Ext(file.Filename)) != ".pdf" {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "only PDF files are supported",
		})
	}

	savePath := filepath.Join(h.uploadDir, file.Filename)
	if err := c.SaveFile(file, savePath); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "cannot save resume file",
		}, err)
	}

	text, err := util.ExtractPDFText(savePath)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusUnprocessableEntity,
			Message: "failed to extract resume text",
		}, err)
	}

	analysis, err := h.uc.ProcessUpload(c.UserContext(), userID, text)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to analyze resume",
		}, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Resume analyzed successfully",
		Data:    analysis,
	})
}

func (h *ResumeHandler) Matches(c *fiber.Ctx) error {
	userID := requesterID(c)
	if userID == "" {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "user_id is required",
		})
	}

	topK, _ := strconv.Atoi(c.Query("top_k"))

	matches, err := h.uc.Matches(c.UserContext(), userID, topK)
	if err != nil {
		return indexAwareError(c, "failed to compute matches", err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get matches",
		Data:    matches,
	})
}

type updateSkillsRequest struct {
	Skills []string `json:"skills"`
}

func (h *ResumeHandler) UpdateSkills(c *fiber.Ctx) error {
	userID := requesterID(c)
	if userID == "" {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "user_id is required",
		})
	}

	var req updateSkillsRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid request body",
		}, err)
	}

	profile, err := h.uc.UpdateSkills(c.UserContext(), userID, req.Skills)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to update skills",
		}, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Skills updated successfully",
		Data:    fiber.Map{"skills": profile.Skills},
	})
}

// requesterID identifies the caller. Authentication lives in front of
// this service; it forwards the user id in a header or query param.
func requesterID(c *fiber.Ctx) string {
	if id := strings.TrimSpace(c.Get("X-User-ID")); id != "" {
		return id
	}
	if id := strings.TrimSpace(c.Query("user_id")); id != "" {
		return id
	}
	return strings.TrimSpace(c.FormValue("user_id"))
}
