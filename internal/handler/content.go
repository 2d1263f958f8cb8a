package handler

import (
	"encoding/json"

	"github.com/wb-go/wbf/ginext"

	"clubhub/internal/dto"
	"clubhub/internal/model"
)

func documentResponse(d *model.Document) dto.DocumentResponse {
	return dto.DocumentResponse{
		ID:        d.ID,
		Kind:      d.Kind,
		Published: d.Published,
		Data:      json.RawMessage(d.Data),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func (h *Handler) listDocuments(c *ginext.Context, includeDrafts bool) {
	docs, err := h.svc.ListDocuments(c.Request.Context(), c.Param("kind"), includeDrafts)
	if err != nil {
		h.fail(c, err)
		return
	}
	out := make([]dto.DocumentResponse, 0, len(docs))
	for i := range docs {
		out = append(out, documentResponse(&docs[i]))
	}
	dto.SuccessResponse(c, out)
}

// ListDocuments serves the published documents of a collection.
func (h *Handler) ListDocuments(c *ginext.Context) {
	h.listDocuments(c, false)
}

// ListAllDocuments includes drafts.
func (h *Handler) ListAllDocuments(c *ginext.Context) {
	h.listDocuments(c, true)
}

func (h *Handler) GetDocument(c *ginext.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	d, err := h.svc.GetDocument(c.Request.Context(), c.Param("kind"), id, false)
	if err != nil {
		h.fail(c, err)
		return
	}
	dto.SuccessResponse(c, documentResponse(d))
}

func (h *Handler) CreateDocument(c *ginext.Context) {
	var req dto.CreateDocumentRequest
	if !h.bind(c, &req) {
		return
	}
	d, err := h.svc.CreateDocument(c.Request.Context(), c.Param("kind"), req.Published, req.Data)
	if err != nil {
		h.fail(c, err)
		return
	}
	dto.SuccessCreatedResponse(c, documentResponse(d))
}

func (h *Handler) UpdateDocument(c *ginext.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateDocumentRequest
	if !h.bind(c, &req) {
		return
	}
	d, err := h.svc.UpdateDocument(c.Request.Context(), c.Param("kind"), id, req.Published, req.Data)
	if err != nil {
		h.fail(c, err)
		return
	}
	dto.SuccessResponse(c, documentResponse(d))
}

func (h *Handler) DeleteDocument(c *ginext.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteDocument(c.Request.Context(), c.Param("kind"), id); err != nil {
		h.fail(c, err)
		return
	}
	dto.SuccessResponse(c, map[string]int64{"id": id})
}
