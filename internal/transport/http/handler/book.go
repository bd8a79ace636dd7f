package handler

import (
	"github.com/gin-gonic/gin"

	"bookreview/internal/core/media"
	"bookreview/internal/core/session"
	"bookreview/internal/domain"
	"bookreview/internal/service"
	"bookreview/internal/transport/http/ez"
)

const booksPath = "/account/books"

// BookHandler 后台书目管理（admin）
type BookHandler struct{ d Deps }

func NewBookHandler(d Deps) *BookHandler { return &BookHandler{d: d} }

type bookForm struct {
	Title       string `form:"title" json:"title"`
	Description string `form:"description" json:"description"`
	Author      string `form:"author" json:"author"`
	Status      string `form:"status" json:"status"`
}

func (f bookForm) input(img *media.Upload) service.BookInput {
	return service.BookInput{Title: f.Title, Description: f.Description, Author: f.Author, Status: f.Status, Image: img}
}

func (h *BookHandler) Index(c *gin.Context) error {
	keyword := c.Query("keyword")
	page, err := h.d.Books.List(c.Request.Context(), keyword, ez.Page(c))
	if err != nil {
		return err
	}
	ez.View(c, gin.H{"books": page, "keyword": keyword})
	return nil
}

func (h *BookHandler) CreatePage(c *gin.Context) error {
	ez.View(c, gin.H{"statuses": domain.BookStatuses})
	return nil
}

func (h *BookHandler) bind(c *gin.Context) (service.BookInput, error) {
	in, err := ez.Bind[bookForm](c)
	if err != nil {
		return service.BookInput{}, err
	}
	img, err := ez.Upload(c, "image", h.d.MaxImage)
	if err != nil {
		return service.BookInput{}, err
	}
	return in.input(img), nil
}

func (h *BookHandler) Store(c *gin.Context) error {
	in, err := h.bind(c)
	if err != nil {
		return err
	}
	if _, err := h.d.Books.Create(c.Request.Context(), in); err != nil {
		return err
	}
	ez.RedirectWith(c, booksPath, session.FlashSuccess, "Book added successfully")
	return nil
}

func (h *BookHandler) Edit(c *gin.Context) error {
	id, err := ez.ParamID(c, "id")
	if err != nil {
		return err
	}
	b, err := h.d.Books.Get(c.Request.Context(), id)
	if err != nil {
		return err
	}
	ez.View(c, gin.H{"book": b, "statuses": domain.BookStatuses})
	return nil
}

func (h *BookHandler) Update(c *gin.Context) error {
	id, err := ez.ParamID(c, "id")
	if err != nil {
		return err
	}
	in, err := h.bind(c)
	if err != nil {
		return err
	}
	if _, err := h.d.Books.Update(c.Request.Context(), id, in); err != nil {
		return err
	}
	ez.RedirectWith(c, booksPath, session.FlashSuccess, "Book updated successfully")
	return nil
}

// Destroy DELETE /account/books（AJAX，id 在 query 或 body）
func (h *BookHandler) Destroy(c *gin.Context) error {
	id, err := ez.TargetID(c)
	if err == nil {
		err = h.d.Books.Delete(c.Request.Context(), id)
	}
	return deleted(c, h.d.Log, err, "Book deleted successfully", "Book not found")
}
