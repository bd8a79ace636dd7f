package handler

import (
	"github.com/gin-gonic/gin"

	"bookreview/internal/core/session"
	"bookreview/internal/service"
	"bookreview/internal/transport/http/ez"
	resp "bookreview/internal/transport/http/response"
)

type HomeHandler struct{ d Deps }

func NewHomeHandler(d Deps) *HomeHandler { return &HomeHandler{d: d} }

// Index GET / 上架书列表，?keyword= 按书名模糊搜
func (h *HomeHandler) Index(c *gin.Context) error {
	keyword := c.Query("keyword")
	page, err := h.d.Books.Browse(c.Request.Context(), keyword, ez.Page(c))
	if err != nil {
		return err
	}
	ez.View(c, gin.H{"books": page, "keyword": keyword})
	return nil
}

// Detail GET /book/:id
func (h *HomeHandler) Detail(c *gin.Context) error {
	id, err := ez.ParamID(c, "id")
	if err != nil {
		return err
	}
	d, err := h.d.Books.Detail(c.Request.Context(), id)
	if err != nil {
		return err
	}
	ez.View(c, gin.H{"book": d.Book, "reviews": d.Reviews, "averageRating": d.Average})
	return nil
}

type reviewForm struct {
	BookID string `form:"book_id" json:"book_id"`
	Review string `form:"review" json:"review"`
	Rating string `form:"rating" json:"rating"`
}

// SaveReview POST /save-book-review（AJAX）
func (h *HomeHandler) SaveReview(c *gin.Context) error {
	in, err := ez.Bind[reviewForm](c)
	if err != nil {
		ez.FailStatus(c, h.d.Log, err)
		return nil
	}
	_, err = h.d.Reviews.Submit(c.Request.Context(), ez.User(c), service.SubmitReviewInput{
		BookID: in.BookID, Review: in.Review, Rating: in.Rating,
	})
	if err != nil {
		ez.FailStatus(c, h.d.Log, err)
		return nil
	}
	const msg = "Review submitted successfully."
	ez.Session(c).Flash(session.FlashSuccess, msg)
	ez.Status(c, resp.Status{Status: true, Message: msg})
	return nil
}
