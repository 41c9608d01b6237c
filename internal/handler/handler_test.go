package handler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v3"

	"wordquiz/internal/domain"
	"wordquiz/internal/repository/memory"
	"wordquiz/internal/service"
	"wordquiz/internal/testutil"
)

// fakeContext records what handlers send back
type fakeContext struct {
	tele.Context
	sender    *tele.User
	text      string
	callback  *tele.Callback
	sent      []string
	markups   []*tele.ReplyMarkup
	edited    []string
	responded int
}

func (c *fakeContext) Sender() *tele.User { return c.sender }
func (c *fakeContext) Text() string { return c.text }
func (c *fakeContext) Callback() *tele.Callback { return c.callback }

func (c *fakeContext) Message() *tele.Message {
	if c.callback != nil {
		return c.callback.Message
	}
	return &tele.Message{Text: c.text}
}

func (c *fakeContext) Send(what interface{}, opts ...interface{}) error {
	c.sent = append(c.sent, what.(string))
	var markup *tele.ReplyMarkup
	for _, o := range opts {
		if m, ok := o.(*tele.ReplyMarkup); ok {
			markup = m
		}
	}
	c.markups = append(c.markups, markup)
	return nil
}

func (c *fakeContext) Edit(what interface{}, _ ...interface{}) error {
	c.edited = append(c.edited, what.(string))
	return nil
}

func (c *fakeContext) Respond(...*tele.CallbackResponse) error {
	c.responded++
	return nil
}

func newTestHandler(t *testing.T) *Handler {
	t.Helper()

	store := testutil.NewSQLiteStore(t)
	for word, tr := range map[string]string{"кот": "cat", "пёс": "dog", "лиса": "fox", "сова": "owl"} {
		testutil.AddSeedWord(t, store, word, tr)
	}

	logger := testutil.NewTestLogger()
	questions := service.NewQuestionCache(100, time.Minute)
	t.Cleanup(questions.Close)

	sessions := service.NewSessionService(
		memory.NewSessionRepo(),
		service.NewWordService(store, service.WordServiceConfig{}, logger),
		service.NewVisibilityService(store),
		service.NewQuizService(store, service.NewLockedRand(1), logger),
		questions,
		service.SessionServiceConfig{SessionTTL: time.Hour},
		logger,
	)

	return NewHandler(nil, sessions, 5*time.Second, logger)
}

// askQuestion runs /start and /next and returns the question's markup
func askQuestion(t *testing.T, h *Handler, user *tele.User) (string, *tele.ReplyMarkup) {
	t.Helper()

	c := &fakeContext{sender: user, text: "/start"}
	require.NoError(t, h.handleStart(c))
	assert.Equal(t, []string{greetingText, menuText}, c.sent)

	c = &fakeContext{sender: user, text: "➡ Далее"}
	require.NoError(t, h.handleNext(c))
	require.Len(t, c.sent, 1)
	require.NotNil(t, c.markups[0])
	return c.sent[0], c.markups[0]
}

func TestHandler_AnswerFlow(t *testing.T) {
	h := newTestHandler(t)
	user := &tele.User{ID: 42}

	prompt, markup := askQuestion(t, h, user)
	require.Len(t, markup.InlineKeyboard, domain.OptionsCount)

	answers := map[string]string{"кот": "cat", "пёс": "dog", "лиса": "fox", "сова": "owl"}
	word := wordOf(prompt)
	var correct, wrong tele.InlineButton
	for _, row := range markup.InlineKeyboard {
		if btn := row[0]; btn.Text == answers[word] {
			correct = btn
		} else {
			wrong = btn
		}
	}
	require.NotEmpty(t, correct.Data)

	c := &fakeContext{
		sender:   user,
		callback: &tele.Callback{Data: wrong.Data, Message: &tele.Message{Text: prompt}},
	}
	require.NoError(t, h.handleAnswer(c))
	assert.Equal(t, []string{wrongText}, c.sent)
	assert.Equal(t, 1, c.responded)

	c = &fakeContext{
		sender:   user,
		callback: &tele.Callback{Data: correct.Data, Message: &tele.Message{Text: prompt}},
	}
	require.NoError(t, h.handleAnswer(c))
	assert.Equal(t, []string{correctText, menuText}, c.sent)
	assert.Equal(t, []string{prompt + "\n\n✅ " + correct.Text}, c.edited)
}

func TestHandler_ExpiredAnswer(t *testing.T) {
	h := newTestHandler(t)

	c := &fakeContext{
		sender:   &tele.User{ID: 42},
		callback: &tele.Callback{Data: "0b4f2a4e-8e1b-4f7a-9c6e-3d2a1b0c9d8e|1", Message: &tele.Message{}},
	}
	require.NoError(t, h.handleAnswer(c))
	assert.Equal(t, []string{expiredText}, c.sent)
}

func TestHandler_GenericCallbackRoutesAnswer(t *testing.T) {
	h := newTestHandler(t)

	c := &fakeContext{
		sender:   &tele.User{ID: 42},
		callback: &tele.Callback{Data: "\fanswer|missing|0", Message: &tele.Message{}},
	}
	require.NoError(t, h.handleCallback(c))
	assert.Equal(t, []string{expiredText}, c.sent)
}

func TestHandler_AddWordFlow(t *testing.T) {
	h := newTestHandler(t)
	user := &tele.User{ID: 7}

	c := &fakeContext{sender: user, text: "➕ Добавить слово"}
	require.NoError(t, h.handleAdd(c))
	assert.Equal(t, []string{"Введите новое слово на русском языке:"}, c.sent)

	c = &fakeContext{sender: user, text: "слон"}
	require.NoError(t, h.handleText(c))
	assert.Equal(t, []string{"Теперь введите перевод на английском:"}, c.sent)

	c = &fakeContext{sender: user, text: "elephant"}
	require.NoError(t, h.handleText(c))
	require.Len(t, c.sent, 2)
	assert.Equal(t, "✅ Слово добавлено!", c.sent[0])
	assert.Equal(t, "Как переводится 'слон'?", c.sent[1])
}

func TestHandler_RemoveUnknownWord(t *testing.T) {
	h := newTestHandler(t)
	user := &tele.User{ID: 7}

	require.NoError(t, h.handleStart(&fakeContext{sender: user, text: "/start"}))
	require.NoError(t, h.handleRemove(&fakeContext{sender: user, text: "/remove"}))

	c := &fakeContext{sender: user, text: "жираф"}
	require.NoError(t, h.handleText(c))
	require.Len(t, c.sent, 2)
	assert.Equal(t, "❌ Такого слова нет в базе.", c.sent[0])
}

func TestHandler_CancelButton(t *testing.T) {
	h := newTestHandler(t)
	user := &tele.User{ID: 7}

	require.NoError(t, h.handleAdd(&fakeContext{sender: user, text: "/add"}))

	c := &fakeContext{sender: user, callback: &tele.Callback{Unique: "cancel"}}
	require.NoError(t, h.handleCallback(c))
	assert.Equal(t, 1, c.responded)
	assert.Equal(t, []string{"Действие отменено.", menuText}, c.sent)

	c = &fakeContext{sender: user, text: "слон"}
	require.NoError(t, h.handleText(c))
	assert.Equal(t, []string{unknownCmdText, menuText}, c.sent)
}

// wordOf extracts the prompted word from a question text
func wordOf(prompt string) string {
	const prefix, suffix = "Как переводится '", "'?"
	if len(prompt) < len(prefix)+len(suffix) {
		return ""
	}
	return prompt[len(prefix) : len(prompt)-len(suffix)]
}
