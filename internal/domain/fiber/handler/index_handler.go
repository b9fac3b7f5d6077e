package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jadhavaryan403/AI-Internship-Recommender/internal/middleware"
	"github.com/jadhavaryan403/AI-Internship-Recommender/internal/usecase"
	"github.com/jadhavaryan403/AI-Internship-Recommender/internal/util"
	"github.com/jadhavaryan403/AI-Internship-Recommender/internal/vectorindex"
)

type IndexHandler struct {
	matcher *usecase.MatchUsecase
}

func NewIndexHandler(matcher *usecase.MatchUsecase) *IndexHandler {
	return &IndexHandler{matcher: matcher}
}

func (h *IndexHandler) RegisterRoutes(app *fiber.App) {
	app.Post("/admin/index/rebuild", middleware.RateLimiter(1, time.Minute), h.Rebuild)
}

// Rebuild re-embeds every active posting and replaces the persisted
// index. Slow by nature; the rate limiter keeps it from stacking up.
func (h *IndexHandler) Rebuild(c *fiber.Ctx) error {
	count, err := h.matcher.BuildIndex(c.UserContext())
	if err != nil {
		if errors.Is(err, vectorindex.ErrEmptyBuild) {
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    fiber.StatusConflict,
				Message: "no active internships to index, import the catalog first",
			}, err)
		}
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to rebuild index",
		}, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Index rebuilt",
		Data:    fiber.Map{"indexed": count},
	})
}

// indexAwareError maps index lifecycle failures to a "warming up" status
// instead of a generic 500.
func indexAwareError(c *fiber.Ctx, message string, err error) error {
	if errors.Is(err, vectorindex.ErrUnavailable) || errors.Is(err, vectorindex.ErrNotFound) {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusServiceUnavailable,
			Message: "recommendations are warming up, try again shortly",
		}, err)
	}
	return util.ErrorResponse(c, util.ErrorResponseFormat{Message: message}, err)
}
