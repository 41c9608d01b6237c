package handler

import (
	tele "gopkg.in/telebot.v3"
)

// handleAdd starts the add-word flow
func (h *Handler) handleAdd(c tele.Context) error {
	ctx, cancel := h.requestContext()
	defer cancel()

	reply, err := h.sessions.RequestAdd(ctx, c.Sender().ID)
	if err != nil {
		return h.fail(c, "Failed to start adding word", err)
	}

	return h.send(c, reply)
}

// handleRemove starts the remove-word flow
func (h *Handler) handleRemove(c tele.Context) error {
	ctx, cancel := h.requestContext()
	defer cancel()

	reply, err := h.sessions.RequestRemove(ctx, c.Sender().ID)
	if err != nil {
		return h.fail(c, "Failed to start removing word", err)
	}

	return h.send(c, reply)
}

// handleText handles all text messages based on state
func (h *Handler) handleText(c tele.Context) error {
	ctx, cancel := h.requestContext()
	defer cancel()

	reply, err := h.sessions.HandleText(ctx, c.Sender().ID, c.Text())
	if err != nil {
		return h.fail(c, "Failed to handle text", err)
	}

	return h.send(c, reply)
}
