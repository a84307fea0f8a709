package api

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-site-backend/errs"
	"github.com/rpupo63/portfolio-site-backend/models"
	"github.com/rpupo63/portfolio-site-backend/services"
	"github.com/rpupo63/portfolio-site-backend/storage"
)

const notifyTimeout = 30 * time.Second

type messageHandler struct {
	responder Responder
	logger    zerolog.Logger
	store     storage.Storage
	notifier  services.ContactNotifier
}

func newMessageHandler(store storage.Storage, notifier services.ContactNotifier) messageHandler {
	logger := log.With().Str("handlerName", "messageHandler").Logger()

	return messageHandler{
		responder: NewResponder(logger),
		logger:    logger,
		store:     store,
		notifier:  notifier,
	}
}

// @Summary Get all messages
// @Description Lists every contact message, newest first
// @Tags Messages
// @Produce json
// @Success 200 {array} models.Message "List of messages"
// @Failure 401 {object} ErrorResponse "Unauthorized - No valid session"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error fetching messages"
// @Router /api/messages [get]
func (h messageHandler) getAllMessages() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		messages, err := h.store.GetMessages(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewStorageError("list", "messages", err))
			return
		}
		h.responder.WriteJSON(w, messages)
	}
}

// @Summary Get message
// @Description Retrieves a contact message by ID
// @Tags Messages
// @Produce json
// @Param id path int true "Message ID"
// @Success 200 {object} models.Message "Message details"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid id"
// @Failure 401 {object} ErrorResponse "Unauthorized - No valid session"
// @Failure 404 {object} ErrorResponse "Not Found - Message not found"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error fetching message"
// @Router /api/messages/{id} [get]
func (h messageHandler) getMessage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		message, err := h.store.GetMessage(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, errs.NewStorageError("find", "message", err))
			return
		}
		if message == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("message"))
			return
		}

		h.responder.WriteJSON(w, message)
	}
}

// createMessage stores a contact message and notifies in the background.
// Mail failures never change the response.
// @Summary Send message
// @Description Stores a contact message from a visitor
// @Tags Messages
// @Accept json
// @Produce json
// @Param message body models.NewMessage true "Message data"
// @Success 201 {object} models.Message "Stored message"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid message data"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error storing message"
// @Router /api/messages [post]
func (h messageHandler) createMessage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload models.NewMessage
		if err := decodeJSON(w, r, "message", &payload); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := validatePayload("message", payload); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		message, err := h.store.CreateMessage(r.Context(), payload)
		if err != nil {
			h.responder.WriteError(w, errs.NewStorageError("create", "message", err))
			return
		}

		go h.notify(message.Clone())

		h.responder.WriteJSONStatus(w, http.StatusCreated, message)
	}
}

func (h messageHandler) notify(message models.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()
	if err := h.notifier.NotifyContact(ctx, message); err != nil {
		h.logger.Error().Err(err).Int64("messageId", message.ID).Msg("Error sending contact notification")
	}
}

// @Summary Mark message as read
// @Description Sets the read flag on a contact message
// @Tags Messages
// @Produce json
// @Param id path int true "Message ID"
// @Success 200 {object} models.Message "Updated message"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid id"
// @Failure 401 {object} ErrorResponse "Unauthorized - No valid session"
// @Failure 404 {object} ErrorResponse "Not Found - Message not found"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error updating message"
// @Router /api/messages/{id}/read [put]
func (h messageHandler) markMessageAsRead() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		message, err := h.store.MarkMessageAsRead(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, errs.NewStorageError("update", "message", err))
			return
		}
		if message == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("message"))
			return
		}

		h.responder.WriteJSON(w, message)
	}
}

// @Summary Delete message
// @Description Deletes a contact message by ID
// @Tags Messages
// @Produce json
// @Param id path int true "Message ID"
// @Success 200 {object} SuccessResponse "Message deleted"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid id"
// @Failure 401 {object} ErrorResponse "Unauthorized - No valid session"
// @Failure 404 {object} ErrorResponse "Not Found - Message not found"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error deleting message"
// @Router /api/messages/{id} [delete]
func (h messageHandler) deleteMessage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		deleted, err := h.store.DeleteMessage(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, errs.NewStorageError("delete", "message", err))
			return
		}
		if !deleted {
			h.responder.WriteError(w, errs.NewNotFoundError("message"))
			return
		}

		h.responder.WriteJSON(w, SuccessResponse{Success: true})
	}
}
