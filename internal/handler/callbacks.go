package handler

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"wordquiz/internal/service"
)

// cleanCallbackData removes all non-printable characters from callback data
func cleanCallbackData(data string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, strings.TrimSpace(data))
}

// parseAnswerData extracts the question ID and option index from answer
// button data. It accepts both the bare payload and one still prefixed with
// the button unique.
func parseAnswerData(data string) (string, int, error) {
	parts := strings.Split(cleanCallbackData(data), "|")
	if len(parts) == 3 && parts[0] == btnAnswer.Unique {
		parts = parts[1:]
	}
	if len(parts) != 2 || parts[0] == "" {
		return "", 0, fmt.Errorf("malformed answer data %q", data)
	}

	index, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", 0, fmt.Errorf("malformed option index %q: %w", parts[1], err)
	}

	return parts[0], index, nil
}

// handleEditError filters errors from c.Edit(). A message that is not modified was already
// edited by another callback, which is not an error.
func (h *Handler) handleEditError(err error, c tele.Context, userID int64) error {
	if err == nil {
		return nil
	}

	// If message is not modified, it means it was already edited by another callback
	if strings.Contains(err.Error(), "message is not modified") {
		h.logger.Debug("Message already modified by another callback, acknowledging",
			zap.Int64("user_id", userID),
			zap.String("callback_id", c.Callback().ID),
		)
		return nil
	}

	h.logger.Warn("Failed to edit message",
		zap.Error(err),
		zap.Int64("user_id", userID),
		zap.String("callback_id", c.Callback().ID),
	)
	return err
}

// handleCallback handles callbacks that did not match a registered unique
func (h *Handler) handleCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil {
		h.logger.Warn("handleCallback: callback is nil")
		return nil
	}

	data := cleanCallbackData(callback.Data)
	h.logger.Debug("handleCallback: Processing callback",
		zap.String("data", data),
		zap.String("unique", callback.Unique),
		zap.Int64("user_id", c.Sender().ID),
	)

	switch {
	case callback.Unique == btnCancel.Unique || data == btnCancel.Unique:
		return h.handleCancel(c)
	case callback.Unique == btnAnswer.Unique || strings.HasPrefix(data, btnAnswer.Unique+"|"):
		return h.handleAnswer(c)
	}

	h.logger.Warn("Unhandled callback in handleCallback",
		zap.String("data", data),
		zap.String("unique", callback.Unique),
	)
	return c.Respond()
}

// handleAnswer checks the option the user pressed
func (h *Handler) handleAnswer(c tele.Context) error {
	userID := c.Sender().ID

	questionID, index, err := parseAnswerData(c.Callback().Data)
	if err != nil {
		h.logger.Warn("Bad answer callback", zap.Error(err), zap.Int64("user_id", userID))
		return c.Respond()
	}

	res := h.sessions.Answer(questionID, index)

	if err := c.Respond(); err != nil {
		h.logger.Warn("Failed to acknowledge callback", zap.Error(err))
	}

	switch res.Status {
	case service.AnswerCorrect:
		h.logger.Info("Correct answer", zap.Int64("user_id", userID), zap.String("answer", res.Selected))

		// Drop the options so the question cannot be answered twice
		if msg := c.Message(); msg != nil {
			edited := fmt.Sprintf("%s\n\n✅ %s", msg.Text, res.Selected)
			_ = h.handleEditError(c.Edit(edited), c, userID)
		}
		if err := c.Send(correctText); err != nil {
			return err
		}
		return c.Send(menuText, mainMenuMarkup())

	case service.AnswerWrong:
		h.logger.Info("Wrong answer",
			zap.Int64("user_id", userID),
			zap.String("answer", res.Selected),
			zap.String("expected", res.Correct),
		)
		return c.Send(wrongText)

	default:
		return c.Send(expiredText, mainMenuMarkup())
	}
}
