package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mmeshcher/inventory-console/internal/model"
)

// ListDocuments возвращает обработчик списка документов коллекции.
func (h *Handler) ListDocuments(kind model.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		docs, err := h.service.ListDocuments(r.Context(), kind)
		if err != nil {
			h.writeError(w, r, "list "+kind.Collection(), err)
			return
		}
		if docs == nil {
			h.writeJSON(w, http.StatusOK, []any{})
			return
		}
		h.writeJSON(w, http.StatusOK, docs)
	}
}

// GetDocument возвращает обработчик чтения документа.
func (h *Handler) GetDocument(kind model.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := h.service.GetDocument(r.Context(), kind, chi.URLParam(r, "id"))
		if err != nil {
			h.writeError(w, r, "get "+kind.Collection(), err)
			return
		}
		h.writeJSON(w, http.StatusOK, doc)
	}
}

// CreateDocument возвращает обработчик создания документа.
func (h *Handler) CreateDocument(kind model.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := h.actor(w, r)
		if !ok {
			return
		}

		body, err := readBody(r)
		if err != nil {
			h.writeError(w, r, "create "+kind.Collection(), err)
			return
		}

		doc, err := h.service.CreateDocument(r.Context(), actor, kind, body)
		if err != nil {
			h.writeError(w, r, "create "+kind.Collection(), err)
			return
		}
		h.writeJSON(w, http.StatusCreated, doc)
	}
}

// PatchDocument возвращает обработчик частичного обновления документа.
func (h *Handler) PatchDocument(kind model.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := h.actor(w, r)
		if !ok {
			return
		}

		body, err := readBody(r)
		if err != nil {
			h.writeError(w, r, "update "+kind.Collection(), err)
			return
		}

		doc, err := h.service.PatchDocument(r.Context(), actor, kind, chi.URLParam(r, "id"), body)
		if err != nil {
			h.writeError(w, r, "update "+kind.Collection(), err)
			return
		}
		h.writeJSON(w, http.StatusOK, doc)
	}
}

// DeleteDocument возвращает обработчик удаления документа.
func (h *Handler) DeleteDocument(kind model.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.service.DeleteDocument(r.Context(), kind, chi.URLParam(r, "id")); err != nil {
			h.writeError(w, r, "delete "+kind.Collection(), err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ApprovePurchaseOrder согласует заказ поставщику.
func (h *Handler) ApprovePurchaseOrder(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var req model.ApproveRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, "approve purchase order", err)
		return
	}

	po, err := h.service.ApprovePurchaseOrder(r.Context(), actor, chi.URLParam(r, "id"), req)
	if err != nil {
		h.writeError(w, r, "approve purchase order", err)
		return
	}
	h.writeJSON(w, http.StatusOK, po)
}

// DeclinePurchaseOrder отклоняет заказ поставщику.
func (h *Handler) DeclinePurchaseOrder(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	po, err := h.service.DeclinePurchaseOrder(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, "decline purchase order", err)
		return
	}
	h.writeJSON(w, http.StatusOK, po)
}

// ReceivePurchaseOrder принимает заказ поставщику на склад.
func (h *Handler) ReceivePurchaseOrder(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var req model.ReceiveRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, "receive purchase order", err)
		return
	}

	res, err := h.service.ReceivePurchaseOrder(r.Context(), actor, chi.URLParam(r, "id"), req.Items)
	if err != nil {
		h.writeError(w, r, "receive purchase order", err)
		return
	}
	h.writeJSON(w, http.StatusOK, res)
}

// DashboardStats возвращает статистику склада.
func (h *Handler) DashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.DashboardStats(r.Context())
	if err != nil {
		h.writeError(w, r, "dashboard stats", err)
		return
	}
	h.writeJSON(w, http.StatusOK, stats)
}

// ListNotifications возвращает уведомления текущего пользователя.
func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	list, err := h.service.ListNotifications(r.Context(), actor)
	if err != nil {
		h.writeError(w, r, "list notifications", err)
		return
	}
	if list == nil {
		list = []model.Notification{}
	}
	h.writeJSON(w, http.StatusOK, list)
}

// MarkNotificationRead отмечает уведомление прочитанным.
func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	n, err := h.service.MarkNotificationRead(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, "mark notification read", err)
		return
	}
	h.writeJSON(w, http.StatusOK, n)
}

// DeleteNotification удаляет уведомление текущего пользователя.
func (h *Handler) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteNotification(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		h.writeError(w, r, "delete notification", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
