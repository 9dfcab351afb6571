package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/social-feed/backend/internal/interactions"
	"github.com/emilythestrangee/social-feed/backend/internal/models"
)

type InteractionHandler struct {
	engine *interactions.Engine
}

func NewInteractionHandler(engine *interactions.Engine) *InteractionHandler {
	return &InteractionHandler{engine: engine}
}

// ToggleInteraction applies one reaction per user: it toggles off if same and switches if
// opposite. Responds with the post's full interaction list.
func (h *InteractionHandler) ToggleInteraction(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var input models.InteractionRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Invalid interaction type.")
		return
	}
	kind, err := models.ParseReactionKind(input.Type)
	if err != nil {
		badRequest(c, "Invalid interaction type.")
		return
	}

	result, err := h.engine.Toggle(c.Request.Context(), p, c.Param("id"), kind)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
