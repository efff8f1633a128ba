package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"courtbook/internal/sessions/service"
	apperrors "courtbook/pkg/errors"
	httputil "courtbook/pkg/http"
	"courtbook/pkg/logger"
	"courtbook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

const basePath = "/api/v1/sessions"

type SessionHandler struct {
	service service.SessionService
	log     *logger.Logger
}

func NewSessionHandler(service service.SessionService, log *logger.Logger) *SessionHandler {
	return &SessionHandler{
		service: service,
		log:     log,
	}
}

func (h *SessionHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST(basePath, h.Create)
	router.GET(basePath, h.List)
	router.GET(basePath+"/id/:id", h.GetByID)
	router.DELETE(basePath+"/id/:id", h.Delete)
	router.POST(basePath+"/id/:id/slots", h.BookSlot)
	router.DELETE(basePath+"/id/:id/slots/:slot_id", h.CancelSlot)
	router.POST(basePath+"/id/:id/finalize", h.Finalize)
	router.POST(basePath+"/id/:id/allocation/check", h.CheckAllocation)
	router.GET(basePath+"/id/:id/cost", h.Cost)
	router.GET(basePath+"/id/:id/share", h.Share)
}

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in model.SessionInput
	if err := httputil.DecodeJSON(r, &in); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	view, err := h.service.Create(r.Context(), in)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, view); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	views, err := h.service.List(r.Context(), r.URL.Query().Get("view"))
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	if err := httputil.WriteList(w, views, len(views)); err != nil {
		h.log.Error("failed to write list response", "handler", "List", "operation", "WriteList", "error", err)
	}
}

func (h *SessionHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	view, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}
	h.writeSuccess(w, "GetByID", view)
}

func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, "Delete", err)
		return
	}
	httputil.WriteNoContent(w)
}

func (h *SessionHandler) BookSlot(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var in model.SlotInput
	if err := httputil.DecodeJSON(r, &in); err != nil {
		h.writeError(w, "BookSlot", err)
		return
	}

	view, err := h.service.BookSlot(r.Context(), ps.ByName("id"), in)
	if err != nil {
		h.writeError(w, "BookSlot", err)
		return
	}

	if err := httputil.WriteCreated(w, view); err != nil {
		h.log.Error("failed to write created response", "handler", "BookSlot", "operation", "WriteCreated", "error", err)
	}
}

func (h *SessionHandler) CancelSlot(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	slotID, err := strconv.ParseInt(ps.ByName("slot_id"), 10, 64)
	if err != nil {
		h.writeError(w, "CancelSlot", apperrors.InvalidInput(fmt.Sprintf("invalid slot id: %s", ps.ByName("slot_id"))))
		return
	}

	view, err := h.service.CancelSlot(r.Context(), ps.ByName("id"), model.SlotID(slotID))
	if err != nil {
		h.writeError(w, "CancelSlot", err)
		return
	}
	h.writeSuccess(w, "CancelSlot", view)
}

func (h *SessionHandler) Finalize(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req model.FinalizeRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Finalize", err)
		return
	}

	view, err := h.service.Finalize(r.Context(), ps.ByName("id"), req)
	if err != nil {
		h.writeError(w, "Finalize", err)
		return
	}
	h.writeSuccess(w, "Finalize", view)
}

func (h *SessionHandler) CheckAllocation(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req model.FinalizeRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "CheckAllocation", err)
		return
	}

	check, err := h.service.CheckAllocation(r.Context(), ps.ByName("id"), req)
	if err != nil {
		h.writeError(w, "CheckAllocation", err)
		return
	}
	h.writeSuccess(w, "CheckAllocation", check)
}

func (h *SessionHandler) Cost(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	total, ok, err := httputil.QueryFloat(r, "total")
	if err != nil {
		h.writeError(w, "Cost", err)
		return
	}
	var liveTotal *float64
	if ok {
		liveTotal = &total
	}

	preview, err := h.service.CostPreview(r.Context(), ps.ByName("id"), liveTotal)
	if err != nil {
		h.writeError(w, "Cost", err)
		return
	}
	h.writeSuccess(w, "Cost", preview)
}

func (h *SessionHandler) Share(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	link, err := h.service.ShareLink(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "Share", err)
		return
	}
	h.writeSuccess(w, "Share", link)
}

func (h *SessionHandler) writeSuccess(w http.ResponseWriter, handler string, data any) {
	if err := httputil.WriteSuccess(w, data); err != nil {
		h.log.Error("failed to write success response", "handler", handler, "operation", "WriteSuccess", "error", err)
	}
}

func (h *SessionHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}
