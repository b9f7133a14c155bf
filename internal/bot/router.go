// Package bot implements the conversational state machine over the Telegram
// transport: token grammar, event normalization, shopper navigation, and the
// admin wizards.
package bot

import (
	"context"
	"fmt"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"catalog-shop-bot/internal/session"
	"catalog-shop-bot/internal/store"
)

const accessDeniedText = "❌ You do not have access."

// Bot routes inbound events to the state-appropriate handler. Events for one
// chat are serialized behind a per-chat mutex; distinct chats are handled
// concurrently and share nothing but the catalog store.
type Bot struct {
	catalog  store.CatalogReader
	writer   store.CatalogWriter
	sessions session.Store
	guard    *Guard
	render   *Renderer
	validate *validator.Validate
	logger   *zap.Logger

	mu        sync.Mutex
	chatLocks map[int64]*sync.Mutex
}

func New(reader store.CatalogReader, writer store.CatalogWriter, sessions session.Store, guard *Guard, render *Renderer, logger *zap.Logger) *Bot {
	return &Bot{
		catalog:   reader,
		writer:    writer,
		sessions:  sessions,
		guard:     guard,
		render:    render,
		validate:  validator.New(),
		logger:    logger,
		chatLocks: make(map[int64]*sync.Mutex),
	}
}

// Run consumes the update channel, fanning each update out to its own
// goroutine. Returns when the channel is closed (polling stopped).
func (b *Bot) Run(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	var wg sync.WaitGroup
	for update := range updates {
		wg.Add(1)
		go func(u tgbotapi.Update) {
			defer wg.Done()
			b.HandleUpdate(ctx, u)
		}(update)
	}
	wg.Wait()
}

// HandleUpdate processes one inbound update to completion.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	ev, ok := FromUpdate(update)
	if !ok {
		return
	}

	lock := b.chatLock(ev.ChatID)
	lock.Lock()
	defer lock.Unlock()

	sess, err := b.sessions.Get(ctx, ev.ChatID)
	if err != nil {
		b.logger.Error("session load failed", zap.Int64("chat_id", ev.ChatID), zap.Error(err))
		sess = &session.Session{ChatID: ev.ChatID, State: session.StateShopCategories}
	}

	b.dispatch(ctx, ev, sess)

	if err := b.sessions.Put(ctx, sess); err != nil {
		b.logger.Error("session save failed", zap.Int64("chat_id", ev.ChatID), zap.Error(err))
	}
}

func (b *Bot) dispatch(ctx context.Context, ev Event, sess *session.Session) {
	if ev.Command != "" {
		b.dispatchCommand(ctx, ev, sess)
		return
	}

	if ev.Kind == EventButtonPress {
		tok, err := ParseToken(ev.Token)
		if err != nil {
			b.logger.Warn("unparsable callback token", zap.String("data", ev.Token))
			b.render.Alert(ev, "Unknown action.")
			return
		}
		if tok.Privileged() && !b.guard.Authorize(ev.UserID) {
			b.render.Alert(ev, accessDeniedText)
			sess.Reset()
			return
		}
		b.dispatchToken(ctx, ev, sess, tok)
		return
	}

	// Free text or photo. A session sitting in an admin wizard state is
	// re-guarded here: allow-list removal takes effect mid-wizard.
	if sess.State.IsAdmin() && !b.guard.Authorize(ev.UserID) {
		b.render.Alert(ev, accessDeniedText)
		sess.Reset()
		return
	}
	b.dispatchText(ctx, ev, sess)
}

func (b *Bot) dispatchCommand(ctx context.Context, ev Event, sess *session.Session) {
	switch ev.Command {
	case "start":
		sess.Reset()
		b.showCategories(ctx, ev, sess, "")
	case "admin":
		if !b.guard.Authorize(ev.UserID) {
			b.render.Alert(ev, accessDeniedText)
			sess.Reset()
			return
		}
		b.showAdminMenu(ev, sess, "")
	case "myid":
		// Unconditional: used for self-service allow-list enrollment.
		b.render.Render(ev, fmt.Sprintf("Your ID: %d", ev.UserID), nil)
	default:
		b.render.Render(ev, "Unknown command. Use /start to browse the catalog.", nil)
	}
}

func (b *Bot) dispatchToken(ctx context.Context, ev Event, sess *session.Session, tok Token) {
	switch tok.Kind {
	// Shopper navigation. Back tokens re-run the forward query with the id
	// embedded in the token; no listing is ever cached.
	case TokenBackCategories:
		b.showCategories(ctx, ev, sess, "")
	case TokenShopCategory, TokenBackCategory:
		b.showBrands(ctx, ev, sess, tok.ID)
	case TokenShopBrand, TokenBackBrand:
		b.showVariants(ctx, ev, sess, tok.ID)
	case TokenShopVariant:
		b.showVariantDetail(ctx, ev, sess, tok.ID)
	case TokenBackToShop:
		sess.Reset()
		b.showCategories(ctx, ev, sess, "")

	// Admin menu
	case TokenAdminBackMenu:
		b.showAdminMenu(ev, sess, "")

	// Add brand
	case TokenAdminAddBrand:
		b.addBrandStart(ctx, ev, sess)
	case TokenAddBrandCategory:
		b.addBrandCategory(ev, sess, tok.ID)
	case TokenAddBrandConfirmYes:
		b.addBrandConfirm(ctx, ev, sess, true)
	case TokenAddBrandConfirmNo:
		b.addBrandConfirm(ctx, ev, sess, false)

	// Add variant
	case TokenAdminAddVariant:
		b.addVariantStart(ctx, ev, sess)
	case TokenAddVariantCategory:
		b.addVariantCategory(ctx, ev, sess, tok.ID)
	case TokenAddVariantBrand:
		b.addVariantBrand(ev, sess, tok.ID)

	// Delete
	case TokenAdminDelete:
		b.deleteStart(ev, sess)
	case TokenDeleteBrandMenu:
		b.delBrandCategories(ctx, ev, sess)
	case TokenDelBrandCategory:
		b.delBrandPick(ctx, ev, sess, tok.ID)
	case TokenDelBrandPick:
		b.delBrandConfirm(ctx, ev, sess, tok.ID)
	case TokenDelBrandFinalYes:
		b.delBrandCommit(ctx, ev, sess, tok.ID)
	case TokenDeleteVariantMenu:
		b.delVariantCategories(ctx, ev, sess)
	case TokenDelVariantCategory:
		b.delVariantBrands(ctx, ev, sess, tok.ID)
	case TokenDelVariantBrand:
		b.delVariantPick(ctx, ev, sess, tok.ID)
	case TokenDelVariantConfirm:
		b.delVariantCommit(ctx, ev, sess, tok.ID)

	default:
		b.render.Alert(ev, "Unknown action.")
	}
}

// dispatchText routes free-text (and photo) events by the session's wizard
// state; invalid input reprompts without advancing.
func (b *Bot) dispatchText(ctx context.Context, ev Event, sess *session.Session) {
	switch sess.State {
	case session.StateAddBrandName:
		b.addBrandName(ev, sess)
	case session.StateAddVariantOption:
		b.addVariantOption(ev, sess)
	case session.StateAddVariantPrice:
		b.addVariantPrice(ev, sess)
	case session.StateAddVariantStock:
		b.addVariantStock(ev, sess)
	case session.StateAddVariantImage:
		b.addVariantImage(ctx, ev, sess)
	default:
		b.render.Render(ev, "Use /start to browse the catalog.", nil)
	}
}

func (b *Bot) chatLock(chatID int64) *sync.Mutex {
	b.mu.Lock()
	defer b.mu.Unlock()
	lock, ok := b.chatLocks[chatID]
	if !ok {
		lock = &sync.Mutex{}
		b.chatLocks[chatID] = lock
	}
	return lock
}
