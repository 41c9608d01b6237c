package handler

import (
	"context"
	"time"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"wordquiz/internal/middleware"
	"wordquiz/internal/service"
)

// Handler manages all bot interactions
type Handler struct {
	bot      *tele.Bot
	sessions *service.SessionService
	timeout  time.Duration
	logger   *zap.Logger
}

// NewHandler creates a new handler instance
func NewHandler(
	bot *tele.Bot,
	sessions *service.SessionService,
	timeout time.Duration,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		bot:      bot,
		sessions: sessions,
		timeout:  timeout,
		logger:   logger,
	}
}

// RegisterHandlers registers all bot handlers
func (h *Handler) RegisterHandlers() {
	h.bot.Use(middleware.Logger(h.logger), middleware.Serialize())

	// Commands
	h.bot.Handle("/start", h.handleStart)
	h.bot.Handle("/next", h.handleNext)
	h.bot.Handle("/add", h.handleAdd)
	h.bot.Handle("/remove", h.handleRemove)
	h.bot.Handle("/cancel", h.handleCancel)

	// Reply keyboard
	h.bot.Handle(&btnNext, h.handleNext)
	h.bot.Handle(&btnAdd, h.handleAdd)
	h.bot.Handle(&btnRemove, h.handleRemove)

	// Text messages
	h.bot.Handle(tele.OnText, h.handleText)

	// Callback queries (inline buttons)
	h.bot.Handle(&btnAnswer, h.handleAnswer)
	h.bot.Handle(&btnCancel, h.handleCancel)

	// Generic callback handler for buttons whose unique did not come through
	h.bot.Handle(tele.OnCallback, h.handleCallback)
}

// requestContext bounds one update's work
func (h *Handler) requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), h.timeout)
}

// fail logs err and tells the user something went wrong
func (h *Handler) fail(c tele.Context, msg string, err error) error {
	h.logger.Error(msg, zap.Error(err), zap.Int64("user_id", c.Sender().ID))
	return c.Send(errorText, mainMenuMarkup())
}

// Reply keyboard buttons
var (
	menu      = &tele.ReplyMarkup{}
	btnNext   = menu.Text("➡ Далее")
	btnAdd    = menu.Text("➕ Добавить слово")
	btnRemove = menu.Text("❌ Удалить слово")
)

// Inline keyboard buttons
var (
	btnAnswer = tele.Btn{Unique: "answer"}
	btnCancel = tele.Btn{
		Unique: "cancel",
		Text:   "❌ Отменить",
	}
)

// mainMenuMarkup returns the main menu keyboard
func mainMenuMarkup() *tele.ReplyMarkup {
	m := &tele.ReplyMarkup{ResizeKeyboard: true}
	m.Reply(
		m.Row(btnNext),
		m.Row(btnAdd, btnRemove),
	)
	return m
}

// cancelMarkup offers to abandon the current flow
func cancelMarkup() *tele.ReplyMarkup {
	m := &tele.ReplyMarkup{}
	m.Inline(m.Row(btnCancel))
	return m
}
