package bot

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"catalog-shop-bot/internal/session"
	"catalog-shop-bot/internal/store"
)

// Shop navigator: the category -> brand -> variant browsing state machine.
// Every listing is rebuilt from a live query, so back navigation always
// reflects the catalog's current contents.

// showCategories renders the root category listing. An optional notice is
// prefixed when the caller fell back here (e.g. a browsed id vanished).
func (b *Bot) showCategories(ctx context.Context, ev Event, sess *session.Session, notice string) {
	categories, err := b.catalog.ListCategories(ctx)
	if err != nil {
		b.failShop(ev, err)
		return
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(categories))
	for _, c := range categories {
		data := Token{Kind: TokenShopCategory, ID: c.ID}.String()
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(c.Name, data)))
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)

	text := "🛍 Choose a category:"
	if notice != "" {
		text = notice + "\n\n" + text
	}
	b.render.Render(ev, text, &kb)
	sess.State = session.StateShopCategories
}

// showBrands renders the in-stock brand listing for a category. Reached both
// by forward navigation (cat_<id>) and by back tokens (back_cat_<id>); both
// paths run the same query so the listings are identical.
func (b *Bot) showBrands(ctx context.Context, ev Event, sess *session.Session, categoryID int64) {
	category, err := b.catalog.GetCategory(ctx, categoryID)
	if err != nil {
		if errors.Is(err, store.ErrCategoryNotFound) {
			b.showCategories(ctx, ev, sess, "That category is no longer available.")
			return
		}
		b.failShop(ev, err)
		return
	}

	brands, err := b.catalog.ListBrandsInStock(ctx, categoryID)
	if err != nil {
		b.failShop(ev, err)
		return
	}

	if len(brands) == 0 {
		kb := tgbotapi.NewInlineKeyboardMarkup(backRow(Token{Kind: TokenBackCategories}))
		b.render.Render(ev, "❌ Nothing in stock here.", &kb)
		sess.State = session.StateShopCategories
		return
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(brands)+1)
	for _, p := range brands {
		label := fmt.Sprintf("%s (%d pcs)", p.Brand, p.TotalStock)
		data := Token{Kind: TokenShopBrand, ID: p.ID}.String()
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(label, data)))
	}
	rows = append(rows, backRow(Token{Kind: TokenBackCategories}))
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)

	b.render.Render(ev, fmt.Sprintf("📦 Brands in %q:", category.Name), &kb)
	sess.State = session.StateShopBrands
}

// showVariants renders the in-stock variant listing for a product.
func (b *Bot) showVariants(ctx context.Context, ev Event, sess *session.Session, productID int64) {
	product, err := b.catalog.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			b.showCategories(ctx, ev, sess, "That brand is no longer available.")
			return
		}
		b.failShop(ev, err)
		return
	}

	category, err := b.catalog.GetCategory(ctx, product.CategoryID)
	if err != nil {
		if errors.Is(err, store.ErrCategoryNotFound) {
			b.showCategories(ctx, ev, sess, "That category is no longer available.")
			return
		}
		b.failShop(ev, err)
		return
	}

	variants, err := b.catalog.ListVariantsInStock(ctx, productID)
	if err != nil {
		b.failShop(ev, err)
		return
	}

	if len(variants) == 0 {
		kb := tgbotapi.NewInlineKeyboardMarkup(backRow(Token{Kind: TokenBackCategory, ID: product.CategoryID}))
		b.render.Render(ev, "❌ No options available.", &kb)
		sess.State = session.StateShopBrands
		return
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(variants)+1)
	for _, v := range variants {
		label := fmt.Sprintf("%s — %s (%d pcs)", v.Option, formatPrice(v.Price), v.Stock)
		data := Token{Kind: TokenShopVariant, ID: v.ID}.String()
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(label, data)))
	}
	rows = append(rows, backRow(Token{Kind: TokenBackCategory, ID: product.CategoryID}))
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)

	b.render.Render(ev, fmt.Sprintf("🔹 %s — %s:", product.Brand, category.OptionLabel()), &kb)
	sess.State = session.StateShopVariants
}

// showVariantDetail renders the full detail view for one variant, with the
// attribute label taken from the owning category's option type.
func (b *Bot) showVariantDetail(ctx context.Context, ev Event, sess *session.Session, variantID int64) {
	detail, err := b.catalog.GetVariantDetail(ctx, variantID)
	if err != nil {
		if errors.Is(err, store.ErrVariantNotFound) {
			b.showCategories(ctx, ev, sess, "That item is no longer available.")
			return
		}
		b.failShop(ev, err)
		return
	}

	caption := fmt.Sprintf("📦 %s\n🔹 %s: %s\n💰 Price: %s\n📦 In stock: %d",
		detail.Brand, detail.OptionLabel(), detail.Option, formatPrice(detail.Price), detail.Stock)

	kb := tgbotapi.NewInlineKeyboardMarkup(backRow(Token{Kind: TokenBackBrand, ID: detail.ProductID}))
	b.render.RenderVariant(ev, detail, caption, &kb)
	sess.State = session.StateShopVariants
}

// failShop surfaces a store failure once and leaves the session state where it
// was; the user can retry from the same listing.
func (b *Bot) failShop(ev Event, err error) {
	b.logger.Error("shop store operation failed", zap.Error(err))
	b.render.Render(ev, "❌ Something went wrong. Please try again.", nil)
}

func backRow(t Token) []tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("⬅️ Back", t.String()))
}

func formatPrice(p float64) string {
	if p == math.Trunc(p) {
		return strconv.FormatFloat(p, 'f', 0, 64)
	}
	return strconv.FormatFloat(p, 'f', 2, 64)
}
