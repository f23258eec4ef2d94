package rest

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/aliyabuz25/forsaj-cms/internal/domain"
	"github.com/aliyabuz25/forsaj-cms/internal/interface/rest/middleware"
	"github.com/aliyabuz25/forsaj-cms/internal/service"
	"github.com/aliyabuz25/forsaj-cms/internal/usecase"
)

// ChangeFeed delivers content-change events to subscribers.
type ChangeFeed interface {
	Subscribe(ctx context.Context) (<-chan domain.ChangeEvent, func())
}

type Handler struct {
	content  *usecase.ContentUsecase
	auth     *service.AuthService
	changes  ChangeFeed
	upgrader websocket.Upgrader
}

func NewHandler(
	content *usecase.ContentUsecase,
	auth *service.AuthService,
	changes ChangeFeed,
) *Handler {
	return &Handler{
		content: content,
		auth:    auth,
		changes: changes,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo, auth *middleware.AuthMiddleware) {
	e.GET("/health", h.handleHealth)
	e.POST("/api/login", h.handleLogin)
	e.GET("/api/content/:id", h.handleGetContent)
	e.POST("/api/content/:id", h.handleSaveContent, auth.RequireAdmin)
	e.GET("/api/struct", h.handleGetStruct)
	e.POST("/api/struct", h.handleSaveStruct, auth.RequireAdmin)
	e.GET("/api/changes", h.handleChanges)
}

func (h *Handler) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, h.content.Status(c.Request().Context()))
}

func (h *Handler) handleLogin(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	token, err := h.auth.Login(ctx, req.Password)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "wrong password"})
	}
	return c.JSON(http.StatusOK, echo.Map{"token": token})
}

func (h *Handler) handleGetContent(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	value := h.content.GetContent(ctx, id, domain.ResourceList{})
	return c.JSON(http.StatusOK, value)
}

func (h *Handler) handleSaveContent(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	var payload any
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	return h.save(c, func() error {
		return h.content.SaveContent(ctx, id, payload)
	})
}

func (h *Handler) handleGetStruct(c echo.Context) error {
	ctx := c.Request().Context()
	value := h.content.GetContent(ctx, domain.StructID, domain.ResourceList{})
	return c.JSON(http.StatusOK, value)
}

func (h *Handler) handleSaveStruct(c echo.Context) error {
	ctx := c.Request().Context()

	var payload any
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	return h.save(c, func() error {
		return h.content.SaveContent(ctx, domain.StructID, payload)
	})
}

func (h *Handler) save(c echo.Context, fn func() error) error {
	if err := fn(); err != nil {
		switch {
		case isValidation(err):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

func isValidation(err error) bool {
	var verr domain.ValidationError
	return errors.As(err, &verr)
}

// handleChanges upgrades to a websocket and streams change events until the
// client disconnects.
func (h *Handler) handleChanges(c echo.Context) error {
	if h.changes == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "change feed disabled"})
	}

	ws, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer ws.Close()

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	events, stop := h.changes.Subscribe(ctx)
	defer stop()

	// read pump: detect client-side close
	go func() {
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-events:
			if !ok {
				return nil
			}
			if err := ws.WriteJSON(event); err != nil {
				return nil
			}
		}
	}
}
