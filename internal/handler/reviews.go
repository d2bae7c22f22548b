package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bucharest-discover/internal/service"
)

// ReviewHandler records ratings and lists them per subject.
type ReviewHandler struct {
	Ratings *service.RatingService
}

// Create handles POST /api/reviews with body
// {"subjectKind", "subjectId", "rating", "title", "content"}.  The response
// carries the subject's recomputed average and count.
func (h *ReviewHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var body struct {
		SubjectKind string `json:"subjectKind"`
		SubjectID   string `json:"subjectId"`
		Rating      int    `json:"rating"`
		Title       string `json:"title"`
		Content     string `json:"content"`
	}
	if err := c.Bind(&body); err != nil {
		return failure(c, http.StatusBadRequest, "invalid request body")
	}
	rv, agg, err := h.Ratings.AddReview(c.Request().Context(), service.ReviewInput{
		SubjectKind: body.SubjectKind,
		SubjectID:   body.SubjectID,
		UserID:      userID,
		Rating:      body.Rating,
		Title:       body.Title,
		Content:     body.Content,
	})
	if err != nil {
		return fail(c, err)
	}
	return success(c, echo.Map{"review": rv, "average": agg.Average, "count": agg.Count})
}

// List handles GET /api/reviews?subjectKind=&subjectId=.
func (h *ReviewHandler) List(c echo.Context) error {
	reviews, agg, err := h.Ratings.ListReviews(c.Request().Context(), c.QueryParam("subjectKind"), c.QueryParam("subjectId"))
	if err != nil {
		return fail(c, err)
	}
	return success(c, echo.Map{"reviews": reviews, "average": agg.Average, "count": agg.Count})
}
