package handler

import (
	"resume-ats/internal/delivery/http/dto"
	"resume-ats/internal/domain/ats"
	"resume-ats/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type KeywordsHandler struct {
	engine *ats.Engine
}

func NewKeywordsHandler(engine *ats.Engine) *KeywordsHandler {
	return &KeywordsHandler{engine: engine}
}

func (h *KeywordsHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/keywords", h.GetKeywords)
}

func (h *KeywordsHandler) GetKeywords(c fiber.Ctx) error {
	out := dto.NewKeywordTablesResponse(h.engine.Tables(), h.engine.Mode().String())
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}
