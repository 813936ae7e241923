// Package telegram wraps the bot API used to deliver reminders. The gateway
// only sends; replies come back through the attendance webhook, driven by
// the bot process that owns the polling loop.
package telegram

import (
	"fmt"
	"time"

	tele "gopkg.in/telebot.v3"
)

type Button struct {
	Text string `json:"text"`
	Data string `json:"data"`
}

type Sender interface {
	SendReminder(telegramID int64, when time.Time, appointmentID uint) error
	SendMessage(telegramID int64, message string, keyboard [][]Button) error
}

// api is the slice of *tele.Bot the gateway needs; tests swap it out.
type api interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

type Gateway struct {
	bot api
}

func NewGateway(token string) (*Gateway, error) {
	bot, err := tele.NewBot(tele.Settings{
		Token: token,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	return &Gateway{bot: bot}, nil
}

func newGatewayWithAPI(bot api) *Gateway {
	return &Gateway{bot: bot}
}

// SendReminder delivers the fixed reminder template with yes/no inline
// buttons. The callback payload carries the appointment id and the reply
// value so the bot can forward them to the attendance webhook verbatim.
func (g *Gateway) SendReminder(telegramID int64, when time.Time, appointmentID uint) error {
	msg := fmt.Sprintf(
		"🔔 <b>Session reminder</b>\n\n"+
			"You have a session at <b>%s</b>.\n\n"+
			"Will you attend?",
		when.Format("15:04, Mon Jan 2"),
	)

	markup := &tele.ReplyMarkup{}
	btnYes := markup.Data("✅ Yes", "attendance", fmt.Sprint(appointmentID), "yes")
	btnNo := markup.Data("❌ No", "attendance", fmt.Sprint(appointmentID), "no")
	markup.Inline(markup.Row(btnYes, btnNo))

	recipient := &tele.User{ID: telegramID}
	_, err := g.bot.Send(recipient, msg, &tele.SendOptions{
		ParseMode:   tele.ModeHTML,
		ReplyMarkup: markup,
	})
	if err != nil {
		return fmt.Errorf("failed to send reminder: %w", err)
	}

	return nil
}

// SendMessage proxies an arbitrary message, optionally with an inline
// keyboard built from rows of text/data pairs.
func (g *Gateway) SendMessage(telegramID int64, message string, keyboard [][]Button) error {
	opts := &tele.SendOptions{ParseMode: tele.ModeHTML}

	if len(keyboard) > 0 {
		markup := &tele.ReplyMarkup{}
		rows := make([]tele.Row, 0, len(keyboard))
		for _, row := range keyboard {
			btns := make([]tele.Btn, 0, len(row))
			for _, b := range row {
				btns = append(btns, markup.Data(b.Text, "proxy", b.Data))
			}
			rows = append(rows, markup.Row(btns...))
		}
		markup.Inline(rows...)
		opts.ReplyMarkup = markup
	}

	recipient := &tele.User{ID: telegramID}
	_, err := g.bot.Send(recipient, message, opts)
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	return nil
}

var _ Sender = (*Gateway)(nil)
