package backend

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nfrund/mesto/internal/domain"
	"github.com/nfrund/mesto/internal/handlers"
	"github.com/nfrund/mesto/internal/middleware"
)

// Handler serves the Mesto REST API over a Store. Request bodies are
// validated through the echo instance's Validator.
type Handler struct {
	store Store
}

// NewHandler creates the API handler.
func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

// Routes registers the API under r. Every route requires a token.
func (h *Handler) Routes(r *echo.Group) {
	r.Use(middleware.TokenAuth(h.store))

	r.GET("/users/me", h.Me)
	r.PATCH("/users/me", h.UpdateProfile)
	r.PATCH("/users/me/avatar", h.UpdateAvatar)
	r.GET("/cards", h.Cards)
	r.POST("/cards", h.CreateCard)
	r.DELETE("/cards/:id", h.DeleteCard)
	r.PUT("/cards/likes/:id", h.Like)
	r.DELETE("/cards/likes/:id", h.Unlike)
}

func currentUser(c echo.Context) (domain.User, error) {
	u, ok := middleware.UserFromContext(c)
	if !ok {
		return domain.User{}, echo.NewHTTPError(http.StatusUnauthorized, "Необходима авторизация")
	}
	return u, nil
}

// Me returns the authenticated user.
func (h *Handler) Me(c echo.Context) error {
	u, err := currentUser(c)
	if err != nil {
		return err
	}
	fresh, err := h.store.User(c.Request().Context(), u.ID)
	if err != nil {
		return handlers.DomainError(err)
	}
	return c.JSON(http.StatusOK, fresh)
}

// UpdateProfile replaces the name and about text.
func (h *Handler) UpdateProfile(c echo.Context) error {
	u, err := currentUser(c)
	if err != nil {
		return err
	}
	var req domain.ProfileUpdate
	if err := handlers.BindAndValidate(c, &req); err != nil {
		return err
	}
	updated, err := h.store.UpdateProfile(c.Request().Context(), u.ID, req)
	if err != nil {
		return handlers.DomainError(err)
	}
	return c.JSON(http.StatusOK, updated)
}

// UpdateAvatar replaces the avatar URL.
func (h *Handler) UpdateAvatar(c echo.Context) error {
	u, err := currentUser(c)
	if err != nil {
		return err
	}
	var req domain.AvatarUpdate
	if err := handlers.BindAndValidate(c, &req); err != nil {
		return err
	}
	updated, err := h.store.UpdateAvatar(c.Request().Context(), u.ID, req.Avatar)
	if err != nil {
		return handlers.DomainError(err)
	}
	return c.JSON(http.StatusOK, updated)
}

// Cards lists every card, newest first.
func (h *Handler) Cards(c echo.Context) error {
	list, err := h.store.Cards(c.Request().Context())
	if err != nil {
		return handlers.DomainError(err)
	}
	return c.JSON(http.StatusOK, list)
}

// CreateCard adds a card owned by the caller.
func (h *Handler) CreateCard(c echo.Context) error {
	u, err := currentUser(c)
	if err != nil {
		return err
	}
	var req domain.NewCard
	if err := handlers.BindAndValidate(c, &req); err != nil {
		return err
	}
	card, err := h.store.CreateCard(c.Request().Context(), u.ID, req)
	if err != nil {
		return handlers.DomainError(err)
	}
	middleware.FromContext(c.Request().Context()).Info("card created", "card_id", card.ID)
	return c.JSON(http.StatusCreated, card)
}

// DeleteCard removes one of the caller's cards.
func (h *Handler) DeleteCard(c echo.Context) error {
	u, err := currentUser(c)
	if err != nil {
		return err
	}
	if err := h.store.DeleteCard(c.Request().Context(), u.ID, c.Param("id")); err != nil {
		return handlers.DomainError(err)
	}
	return c.JSON(http.StatusOK, handlers.MessageResponse{Message: "Пост удалён"})
}

// Like adds the caller to the liker set.
func (h *Handler) Like(c echo.Context) error {
	return h.setLike(c, true)
}

// Unlike removes the caller from the liker set.
func (h *Handler) Unlike(c echo.Context) error {
	return h.setLike(c, false)
}

func (h *Handler) setLike(c echo.Context, like bool) error {
	u, err := currentUser(c)
	if err != nil {
		return err
	}
	card, err := h.store.SetLike(c.Request().Context(), u.ID, c.Param("id"), like)
	if err != nil {
		return handlers.DomainError(err)
	}
	return c.JSON(http.StatusOK, card)
}
