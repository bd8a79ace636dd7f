package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bookreview/internal/core/session"
	"bookreview/internal/domain"
	"bookreview/internal/service"
	"bookreview/internal/transport/http/ez"
)

const myReviewsPath = "/account/my-reviews"

type AccountHandler struct{ d Deps }

func NewAccountHandler(d Deps) *AccountHandler { return &AccountHandler{d: d} }

type registerForm struct {
	Name                 string `form:"name" json:"name"`
	Email                string `form:"email" json:"email"`
	Password             string `form:"password" json:"password"`
	PasswordConfirmation string `form:"password_confirmation" json:"password_confirmation"`
}

type loginForm struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

type profileForm struct {
	Name  string `form:"name" json:"name"`
	Email string `form:"email" json:"email"`
}

type ownerReviewForm struct {
	Review string `form:"review" json:"review"`
	Rating string `form:"rating" json:"rating"`
}

func (h *AccountHandler) RegisterPage(c *gin.Context) error {
	ez.View(c, nil)
	return nil
}

func (h *AccountHandler) Register(c *gin.Context) error {
	in, err := ez.Bind[registerForm](c)
	if err != nil {
		return err
	}
	_, err = h.d.Accounts.Register(c.Request.Context(), service.RegisterInput{
		Name: in.Name, Email: in.Email, Password: in.Password, PasswordConfirmation: in.PasswordConfirmation,
	})
	if err != nil {
		return err
	}
	ez.RedirectWith(c, ez.LoginPath, session.FlashSuccess, "You have registered successfully.")
	return nil
}

func (h *AccountHandler) LoginPage(c *gin.Context) error {
	ez.View(c, nil)
	return nil
}

// Login 成功即换新会话 id
func (h *AccountHandler) Login(c *gin.Context) error {
	in, err := ez.Bind[loginForm](c)
	if err != nil {
		return err
	}
	ctx := c.Request.Context()
	u, err := h.d.Accounts.Authenticate(ctx, service.LoginInput{Email: in.Email, Password: in.Password})
	if errors.Is(err, domain.ErrInvalidCredentials) {
		ez.RedirectWith(c, ez.LoginPath, session.FlashError, err.Error())
		return nil
	}
	if err != nil {
		return err
	}
	if err := h.d.Sessions.Regenerate(ctx, ez.Session(c), u.ID); err != nil {
		return err
	}
	ez.SetUser(c, u)
	h.d.Log.Info("login", zap.Uint("uid", u.ID))
	ez.Redirect(c, ez.ProfilePath)
	return nil
}

func (h *AccountHandler) Logout(c *gin.Context) error {
	if err := h.d.Sessions.Destroy(c.Request.Context(), ez.Session(c)); err != nil {
		return err
	}
	ez.SetUser(c, nil)
	ez.Redirect(c, ez.LoginPath)
	return nil
}

func (h *AccountHandler) Profile(c *gin.Context) error {
	ez.View(c, nil)
	return nil
}

func (h *AccountHandler) UpdateProfile(c *gin.Context) error {
	in, err := ez.Bind[profileForm](c)
	if err != nil {
		return err
	}
	img, err := ez.Upload(c, "image", h.d.MaxImage)
	if err != nil {
		return err
	}
	u, err := h.d.Accounts.UpdateProfile(c.Request.Context(), ez.User(c), service.ProfileInput{
		Name: in.Name, Email: in.Email, Image: img,
	})
	if err != nil {
		return err
	}
	ez.SetUser(c, u)
	ez.RedirectWith(c, ez.ProfilePath, session.FlashSuccess, "Profile updated successfully")
	return nil
}

// MyReviews GET /account/my-reviews，?keyword= 搜评论内容
func (h *AccountHandler) MyReviews(c *gin.Context) error {
	keyword := c.Query("keyword")
	page, err := h.d.Reviews.ListMine(c.Request.Context(), ez.User(c).ID, keyword, ez.Page(c))
	if err != nil {
		return err
	}
	ez.View(c, gin.H{"reviews": page, "keyword": keyword})
	return nil
}

func (h *AccountHandler) EditMyReview(c *gin.Context) error {
	id, err := ez.ParamID(c, "id")
	if err != nil {
		return err
	}
	r, err := h.d.Reviews.GetMine(c.Request.Context(), id, ez.User(c).ID)
	if err != nil {
		return err
	}
	ez.View(c, gin.H{"review": r})
	return nil
}

func (h *AccountHandler) UpdateMyReview(c *gin.Context) error {
	id, err := ez.ParamID(c, "id")
	if err != nil {
		return err
	}
	in, err := ez.Bind[ownerReviewForm](c)
	if err != nil {
		return err
	}
	_, err = h.d.Reviews.UpdateMine(c.Request.Context(), id, ez.User(c).ID, service.OwnerReviewInput{
		Review: in.Review, Rating: in.Rating,
	})
	if err != nil {
		return err
	}
	ez.RedirectWith(c, myReviewsPath, session.FlashSuccess, "Review updated successfully")
	return nil
}

// DeleteMyReview POST /account/delete-my-reviews（AJAX）
func (h *AccountHandler) DeleteMyReview(c *gin.Context) error {
	id, err := ez.TargetID(c)
	if err == nil {
		err = h.d.Reviews.DeleteMine(c.Request.Context(), id, ez.User(c).ID)
	}
	return deleted(c, h.d.Log, err, "Review deleted successfully", "Review not found")
}
