package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	commonerrors "github.com/messagely/backend/internal/common/errors"
	commonhttp "github.com/messagely/backend/internal/common/http"
	"github.com/messagely/backend/internal/common/jwtverify"
	"github.com/messagely/backend/internal/common/logger"
	"github.com/messagely/backend/internal/message/authz"
	"github.com/messagely/backend/internal/message/domain"
	"github.com/messagely/backend/internal/message/service"
	userdomain "github.com/messagely/backend/internal/user/domain"
)

type createRequest struct {
	ToUsername string `json:"to_username"`
	Body       string `json:"body"`
}

type userSummaryResponse struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

type messageResponse struct {
	ID           int64     `json:"id"`
	FromUsername string    `json:"from_username"`
	ToUsername   string    `json:"to_username"`
	Body         string    `json:"body"`
	SentAt       time.Time `json:"sent_at"`
}

type messageDetailResponse struct {
	ID       int64               `json:"id"`
	Body     string              `json:"body"`
	SentAt   time.Time           `json:"sent_at"`
	ReadAt   *time.Time          `json:"read_at"`
	FromUser userSummaryResponse `json:"from_user"`
	ToUser   userSummaryResponse `json:"to_user"`
}

type sentItemResponse struct {
	ID     int64               `json:"id"`
	Body   string              `json:"body"`
	SentAt time.Time           `json:"sent_at"`
	ReadAt *time.Time          `json:"read_at"`
	ToUser userSummaryResponse `json:"to_user"`
}

type receivedItemResponse struct {
	ID       int64               `json:"id"`
	Body     string              `json:"body"`
	SentAt   time.Time           `json:"sent_at"`
	ReadAt   *time.Time          `json:"read_at"`
	FromUser userSummaryResponse `json:"from_user"`
}

type readReceiptResponse struct {
	ID     int64     `json:"id"`
	ReadAt time.Time `json:"read_at"`
}

type Handler struct {
	store   *service.Store
	errors  *commonhttp.ErrorHandler
	log     *logger.Logger
	timeout time.Duration
}

func NewHandler(store *service.Store, timeout time.Duration, log *logger.Logger) *Handler {
	return &Handler{
		store:   store,
		errors:  commonhttp.NewErrorHandler(log),
		log:     log,
		timeout: timeout,
	}
}

// Register mounts the message routes plus the per-user inbox/outbox
// listings. Every route requires an authenticated acting user.
func (h *Handler) Register(mux *http.ServeMux, auth func(http.Handler) http.Handler) {
	mux.Handle("POST /api/messages", auth(http.HandlerFunc(h.create)))
	mux.Handle("GET /api/messages/{id}", auth(http.HandlerFunc(h.get)))
	mux.Handle("POST /api/messages/{id}/read", auth(http.HandlerFunc(h.markRead)))
	mux.Handle("GET /api/users/{username}/to", auth(http.HandlerFunc(h.listTo)))
	mux.Handle("GET /api/users/{username}/from", auth(http.HandlerFunc(h.listFrom)))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	claims, ok := actingUser(w, r)
	if !ok {
		return
	}

	var req createRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("create message failed: invalid json: %v", err)
		commonhttp.WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	msg, err := h.store.Create(ctx, service.CreateInput{
		FromUsername: claims.Username,
		ToUsername:   req.ToUsername,
		Body:         req.Body,
	})
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusCreated, map[string]any{"message": messageResponse{
		ID:           msg.ID,
		FromUsername: msg.FromUsername,
		ToUsername:   msg.ToUsername,
		Body:         msg.Body,
		SentAt:       msg.SentAt,
	}})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	claims, ok := actingUser(w, r)
	if !ok {
		return
	}

	id, ok := messageID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	detail, err := h.store.Get(ctx, id)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	if !authz.CanView(claims.Username, detail) {
		h.log.WithFields(ctx, logger.Fields{
			"message_id": id,
			"username":   claims.Username,
			"action":     "view_message_denied",
		}).Warn("message view denied")
		h.errors.HandleError(w, r, commonerrors.ErrUnauthorized)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, map[string]any{"message": toDetailResponse(detail)})
}

func (h *Handler) markRead(w http.ResponseWriter, r *http.Request) {
	claims, ok := actingUser(w, r)
	if !ok {
		return
	}

	id, ok := messageID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	// Authorization is checked against the stored message before any
	// mutation runs.
	detail, err := h.store.Get(ctx, id)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	if !authz.CanMarkRead(claims.Username, detail) {
		h.log.WithFields(ctx, logger.Fields{
			"message_id": id,
			"username":   claims.Username,
			"action":     "mark_read_denied",
		}).Warn("mark read denied")
		h.errors.HandleError(w, r, commonerrors.ErrUnauthorized)
		return
	}

	receipt, err := h.store.MarkRead(ctx, id)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, map[string]any{"message": readReceiptResponse{
		ID:     receipt.ID,
		ReadAt: receipt.ReadAt,
	}})
}

func (h *Handler) listFrom(w http.ResponseWriter, r *http.Request) {
	username, ok := h.correctUser(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	items, err := h.store.ListFrom(ctx, username)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	messages := make([]sentItemResponse, 0, len(items))
	for _, item := range items {
		messages = append(messages, sentItemResponse{
			ID:     item.ID,
			Body:   item.Body,
			SentAt: item.SentAt,
			ReadAt: item.ReadAt,
			ToUser: toSummaryResponse(item.ToUser),
		})
	}

	commonhttp.WriteJSON(w, http.StatusOK, map[string]any{"messages": messages})
}

func (h *Handler) listTo(w http.ResponseWriter, r *http.Request) {
	username, ok := h.correctUser(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	items, err := h.store.ListTo(ctx, username)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	messages := make([]receivedItemResponse, 0, len(items))
	for _, item := range items {
		messages = append(messages, receivedItemResponse{
			ID:       item.ID,
			Body:     item.Body,
			SentAt:   item.SentAt,
			ReadAt:   item.ReadAt,
			FromUser: toSummaryResponse(item.FromUser),
		})
	}

	commonhttp.WriteJSON(w, http.StatusOK, map[string]any{"messages": messages})
}

func actingUser(w http.ResponseWriter, r *http.Request) (jwtverify.Claims, bool) {
	claims, ok := jwtverify.FromContext(r.Context())
	if !ok {
		de := commonerrors.ErrMissingAuthorization
		commonhttp.WriteError(w, http.StatusUnauthorized, de.Code(), de.Message())
		return jwtverify.Claims{}, false
	}
	return claims, true
}

func (h *Handler) correctUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	claims, ok := actingUser(w, r)
	if !ok {
		return "", false
	}

	username := r.PathValue("username")
	if claims.Username != username {
		h.errors.HandleError(w, r, commonerrors.ErrUnauthorized)
		return "", false
	}
	return username, true
}

func messageID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		commonhttp.WriteError(w, http.StatusBadRequest, "INVALID_MESSAGE_ID", "message id must be an integer")
		return 0, false
	}
	return id, true
}

func toSummaryResponse(s userdomain.Summary) userSummaryResponse {
	return userSummaryResponse{
		Username:  s.Username,
		FirstName: s.FirstName,
		LastName:  s.LastName,
		Phone:     s.Phone,
	}
}

func toDetailResponse(d domain.Detail) messageDetailResponse {
	return messageDetailResponse{
		ID:       d.ID,
		Body:     d.Body,
		SentAt:   d.SentAt,
		ReadAt:   d.ReadAt,
		FromUser: toSummaryResponse(d.FromUser),
		ToUser:   toSummaryResponse(d.ToUser),
	}
}
