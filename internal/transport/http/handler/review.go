package handler

import (
	"github.com/gin-gonic/gin"

	"bookreview/internal/core/session"
	"bookreview/internal/domain"
	"bookreview/internal/service"
	"bookreview/internal/transport/http/ez"
)

const reviewsPath = "/account/reviews"

// ReviewHandler 后台评论审核（admin）
type ReviewHandler struct{ d Deps }

func NewReviewHandler(d Deps) *ReviewHandler { return &ReviewHandler{d: d} }

type moderateForm struct {
	Review string `form:"review" json:"review"`
	Status string `form:"status" json:"status"`
}

func (h *ReviewHandler) Index(c *gin.Context) error {
	keyword := c.Query("keyword")
	page, err := h.d.Reviews.ListAll(c.Request.Context(), keyword, ez.Page(c))
	if err != nil {
		return err
	}
	ez.View(c, gin.H{"reviews": page, "keyword": keyword})
	return nil
}

func (h *ReviewHandler) Edit(c *gin.Context) error {
	id, err := ez.ParamID(c, "id")
	if err != nil {
		return err
	}
	r, err := h.d.Reviews.Get(c.Request.Context(), id)
	if err != nil {
		return err
	}
	ez.View(c, gin.H{"review": r, "statuses": domain.ReviewStatuses})
	return nil
}

func (h *ReviewHandler) Update(c *gin.Context) error {
	id, err := ez.ParamID(c, "id")
	if err != nil {
		return err
	}
	in, err := ez.Bind[moderateForm](c)
	if err != nil {
		return err
	}
	if _, err := h.d.Reviews.Moderate(c.Request.Context(), id, service.ModerateInput{Review: in.Review, Status: in.Status}); err != nil {
		return err
	}
	ez.RedirectWith(c, reviewsPath, session.FlashSuccess, "Review updated successfully")
	return nil
}

// Delete POST /account/delete-review（AJAX）
func (h *ReviewHandler) Delete(c *gin.Context) error {
	id, err := ez.TargetID(c)
	if err == nil {
		err = h.d.Reviews.Delete(c.Request.Context(), id)
	}
	return deleted(c, h.d.Log, err, "Review deleted successfully", "Review not found")
}
