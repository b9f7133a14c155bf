package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"catalog-shop-bot/internal/domain"
)

// TelegramAPI is the slice of *tgbotapi.BotAPI the renderer needs; tests
// substitute a recording fake.
type TelegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Renderer owns the send-vs-edit decision so handlers never need to know which
// transport shape they are responding to. Button presses are acknowledged and
// edited in place with a send fallback; fresh messages always get a new reply.
type Renderer struct {
	api    TelegramAPI
	logger *zap.Logger
}

func NewRenderer(api TelegramAPI, logger *zap.Logger) *Renderer {
	return &Renderer{api: api, logger: logger}
}

// Render delivers text (plus an optional inline keyboard) in response to ev.
func (r *Renderer) Render(ev Event, text string, keyboard *tgbotapi.InlineKeyboardMarkup) {
	if ev.Kind == EventButtonPress {
		r.ack(ev)
		edit := tgbotapi.NewEditMessageText(ev.ChatID, ev.MessageID, text)
		edit.ReplyMarkup = keyboard
		if _, err := r.api.Send(edit); err == nil {
			return
		}
		// The target message is no longer editable (deleted, or its media
		// shape changed); deliver a fresh message instead.
	}
	r.send(ev.ChatID, text, keyboard)
}

// RenderVariant delivers the variant detail view. With an image the edit
// degrades gracefully: media edit, then caption edit, then plain text.
func (r *Renderer) RenderVariant(ev Event, d *domain.VariantDetail, caption string, keyboard *tgbotapi.InlineKeyboardMarkup) {
	if !d.HasImage() {
		r.Render(ev, caption, keyboard)
		return
	}

	var file tgbotapi.RequestFileData
	if d.ImageIsURL() {
		file = tgbotapi.FileURL(*d.Image)
	} else {
		file = tgbotapi.FileID(*d.Image)
	}

	if ev.Kind == EventButtonPress {
		r.ack(ev)

		media := tgbotapi.NewInputMediaPhoto(file)
		media.Caption = caption
		mediaEdit := tgbotapi.EditMessageMediaConfig{
			BaseEdit: tgbotapi.BaseEdit{ChatID: ev.ChatID, MessageID: ev.MessageID, ReplyMarkup: keyboard},
			Media:    media,
		}
		if _, err := r.api.Send(mediaEdit); err == nil {
			return
		}

		captionEdit := tgbotapi.EditMessageCaptionConfig{
			BaseEdit: tgbotapi.BaseEdit{ChatID: ev.ChatID, MessageID: ev.MessageID, ReplyMarkup: keyboard},
			Caption:  caption,
		}
		if _, err := r.api.Send(captionEdit); err == nil {
			return
		}

		textEdit := tgbotapi.NewEditMessageText(ev.ChatID, ev.MessageID, caption)
		textEdit.ReplyMarkup = keyboard
		if _, err := r.api.Send(textEdit); err == nil {
			return
		}
	}

	photo := tgbotapi.NewPhoto(ev.ChatID, file)
	photo.Caption = caption
	if keyboard != nil {
		photo.ReplyMarkup = *keyboard
	}
	if _, err := r.api.Send(photo); err != nil {
		r.logger.Warn("photo send failed, degrading to text", zap.Error(err))
		r.send(ev.ChatID, caption, keyboard)
	}
}

// Alert delivers a short rejection notice in the shape the event arrived in:
// a popup alert for button presses, a plain reply for fresh messages.
func (r *Renderer) Alert(ev Event, text string) {
	if ev.Kind == EventButtonPress {
		if _, err := r.api.Request(tgbotapi.NewCallbackWithAlert(ev.CallbackID, text)); err != nil {
			r.logger.Warn("callback alert failed", zap.Error(err))
			r.send(ev.ChatID, text, nil)
		}
		return
	}
	r.send(ev.ChatID, text, nil)
}

// ack answers the callback query to stop the client-side loading spinner.
// Failures are swallowed: acknowledgment is best-effort and never blocks the
// flow.
func (r *Renderer) ack(ev Event) {
	if ev.CallbackID == "" {
		return
	}
	if _, err := r.api.Request(tgbotapi.NewCallback(ev.CallbackID, "")); err != nil {
		r.logger.Debug("callback ack failed", zap.Error(err))
	}
}

func (r *Renderer) send(chatID int64, text string, keyboard *tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	if keyboard != nil {
		msg.ReplyMarkup = *keyboard
	}
	if _, err := r.api.Send(msg); err != nil {
		r.logger.Warn("message send failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
