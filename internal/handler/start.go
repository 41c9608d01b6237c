package handler

import (
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"wordquiz/internal/service"
)

// handleStart handles /start command
func (h *Handler) handleStart(c tele.Context) error {
	userID := c.Sender().ID

	h.logger.Info("User started bot",
		zap.Int64("user_id", userID),
		zap.String("username", c.Sender().Username),
	)

	ctx, cancel := h.requestContext()
	defer cancel()

	reply, err := h.sessions.Start(ctx, userID)
	if err != nil {
		return h.fail(c, "Failed to start session", err)
	}

	return h.send(c, reply)
}

// handleNext asks the next question
func (h *Handler) handleNext(c tele.Context) error {
	ctx, cancel := h.requestContext()
	defer cancel()

	reply, err := h.sessions.Next(ctx, c.Sender().ID)
	if err != nil {
		return h.fail(c, "Failed to get next question", err)
	}

	return h.send(c, reply)
}

// handleCancel abandons the current flow, from a command or the inline button
func (h *Handler) handleCancel(c tele.Context) error {
	ctx, cancel := h.requestContext()
	defer cancel()

	if c.Callback() != nil {
		if err := c.Respond(); err != nil {
			h.logger.Warn("Failed to acknowledge callback", zap.Error(err))
		}
	}

	reply, err := h.sessions.Cancel(ctx, c.Sender().ID)
	if err != nil {
		return h.fail(c, "Failed to cancel", err)
	}

	return h.send(c, reply)
}

// send delivers the messages rendered for reply
func (h *Handler) send(c tele.Context, reply service.Reply) error {
	for _, m := range render(reply) {
		if err := m.send(c); err != nil {
			return err
		}
	}
	return nil
}
