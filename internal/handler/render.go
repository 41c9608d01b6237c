package handler

import (
	"fmt"
	"strconv"

	tele "gopkg.in/telebot.v3"

	"wordquiz/internal/domain"
	"wordquiz/internal/service"
)

const (
	greetingText = "Привет 👋 Давай попрактикуемся в английском языке.\n" +
		"Тренировки можешь проходить в удобном темпе.\n" +
		"Ты можешь добавить слова ➕ или удалить их ❌.\n" +
		"Ну что, начнем!"
	menuText       = "Выбери действие:"
	errorText      = "Произошла ошибка. Попробуйте позже."
	noWordsText    = "Слов пока нет, добавьте их! ➕"
	notEnoughText  = "Пока слишком мало слов для вопроса, добавьте ещё! ➕"
	correctText    = "✅ Правильно!"
	wrongText      = "❌ Неверно. Попробуй снова!"
	expiredText    = "⌛ Этот вопрос устарел. Нажми «➡ Далее»."
	unknownCmdText = "Не понимаю 🤔"
)

// eventTexts maps controller events to the message shown for them
var eventTexts = map[service.Event]string{
	service.EventPromptWord:        "Введите новое слово на русском языке:",
	service.EventPromptTranslation: "Теперь введите перевод на английском:",
	service.EventPromptRemoval:     "Введите слово на русском для удаления:",
	service.EventWordAdded:         "✅ Слово добавлено!",
	service.EventWordRemoved:       "✅ Слово удалено из вашего списка.",
	service.EventWordNotInList:     "❌ Это слово не в вашем списке.",
	service.EventWordUnknown:       "❌ Такого слова нет в базе.",
	service.EventEmptyInput:        "Пустой ввод, действие отменено.",
	service.EventCancelled:         "Действие отменено.",
	service.EventUnrecognized:      unknownCmdText,
}

// message is one outgoing chat message
type message struct {
	text   string
	markup *tele.ReplyMarkup
}

func (m message) send(c tele.Context) error {
	if m.markup == nil {
		return c.Send(m.text)
	}
	return c.Send(m.text, m.markup)
}

// render turns a controller reply into chat messages
func render(r service.Reply) []message {
	var out []message

	switch r.Event {
	case service.EventNone:
	case service.EventGreeting:
		return []message{
			{text: greetingText},
			{text: menuText, markup: mainMenuMarkup()},
		}
	case service.EventPromptWord, service.EventPromptTranslation, service.EventPromptRemoval:
		return []message{{text: eventTexts[r.Event], markup: cancelMarkup()}}
	case service.EventEmptyInput, service.EventCancelled, service.EventUnrecognized:
		return []message{
			{text: eventTexts[r.Event]},
			{text: menuText, markup: mainMenuMarkup()},
		}
	default:
		out = append(out, message{text: eventTexts[r.Event]})
	}

	switch r.Quiz {
	case service.QuizAsked:
		out = append(out, message{text: questionText(r.Question), markup: answerMarkup(r.Question)})
	case service.QuizNoWords:
		out = append(out, message{text: noWordsText, markup: mainMenuMarkup()})
	case service.QuizNotEnoughWords:
		out = append(out, message{text: notEnoughText, markup: mainMenuMarkup()})
	}

	return out
}

func questionText(q *domain.Question) string {
	return fmt.Sprintf("Как переводится '%s'?", q.Prompt)
}

// answerMarkup lays the options out one per row. Each button carries the
// question ID and the option index.
func answerMarkup(q *domain.Question) *tele.ReplyMarkup {
	m := &tele.ReplyMarkup{}
	rows := make([]tele.Row, 0, len(q.Options))
	for i, option := range q.Options {
		rows = append(rows, m.Row(m.Data(option, btnAnswer.Unique, q.ID, strconv.Itoa(i))))
	}
	m.Inline(rows...)
	return m
}
