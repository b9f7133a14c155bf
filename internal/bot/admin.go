package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"catalog-shop-bot/internal/domain"
	"catalog-shop-bot/internal/session"
	"catalog-shop-bot/internal/store"
)

// Admin wizards: add-brand, add-variant, and the two delete flows. Partial
// input accumulates in the session drafts and is committed in a single write
// at the final step. Every terminal outcome lands back on the admin menu.

// showAdminMenu renders the admin root menu, optionally prefixed with the
// outcome of the step that led here. Pending drafts are dropped: the menu is
// the stable root and nothing half-entered survives past it.
func (b *Bot) showAdminMenu(ev Event, sess *session.Session, notice string) {
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("➕ Add brand", Token{Kind: TokenAdminAddBrand}.String())),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("➕ Add variant", Token{Kind: TokenAdminAddVariant}.String())),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🗑 Delete", Token{Kind: TokenAdminDelete}.String())),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("⬅️ Back to shop", Token{Kind: TokenBackToShop}.String())),
	)

	text := "🛠 Admin panel:"
	if notice != "" {
		text = notice + "\n\n" + text
	}
	b.render.Render(ev, text, &kb)
	sess.State = session.StateAdminMenu
	sess.ClearDrafts()
}

// failAdmin surfaces a store failure once and returns to the admin menu.
func (b *Bot) failAdmin(ev Event, sess *session.Session, err error) {
	b.logger.Error("admin store operation failed", zap.Error(err))
	b.showAdminMenu(ev, sess, "❌ Something went wrong. Nothing was changed.")
}

// categoryPicker renders a category keyboard whose buttons carry the given
// token kind; all four wizards start this way.
func (b *Bot) categoryPicker(ctx context.Context, ev Event, sess *session.Session, kind TokenKind, prompt string, next session.State) {
	categories, err := b.catalog.ListCategories(ctx)
	if err != nil {
		b.failAdmin(ev, sess, err)
		return
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(categories)+1)
	for _, c := range categories {
		data := Token{Kind: kind, ID: c.ID}.String()
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(c.Name, data)))
	}
	rows = append(rows, backRow(Token{Kind: TokenAdminBackMenu}))
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)

	b.render.Render(ev, prompt, &kb)
	sess.State = next
}

// --- Add brand ---

func (b *Bot) addBrandStart(ctx context.Context, ev Event, sess *session.Session) {
	sess.ClearDrafts()
	b.categoryPicker(ctx, ev, sess, TokenAddBrandCategory,
		"Choose a category for the new brand:", session.StateAddBrandCategory)
}

func (b *Bot) addBrandCategory(ev Event, sess *session.Session, categoryID int64) {
	sess.BrandDraft.CategoryID = categoryID
	b.render.Render(ev, "Enter the brand name:", nil)
	sess.State = session.StateAddBrandName
}

func (b *Bot) addBrandName(ev Event, sess *session.Session) {
	name := strings.TrimSpace(ev.Text)
	if name == "" {
		b.render.Render(ev, "The name cannot be empty. Try again:", nil)
		return
	}
	sess.BrandDraft.Name = name

	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("✅ Confirm", Token{Kind: TokenAddBrandConfirmYes}.String())),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", Token{Kind: TokenAddBrandConfirmNo}.String())),
	)
	b.render.Render(ev, fmt.Sprintf("Add this brand?\n\n%s", name), &kb)
	sess.State = session.StateAddBrandConfirm
}

func (b *Bot) addBrandConfirm(ctx context.Context, ev Event, sess *session.Session, confirmed bool) {
	if !confirmed {
		b.showAdminMenu(ev, sess, "Brand creation cancelled.")
		return
	}

	draft := sess.BrandDraft
	if draft.Name == "" || draft.CategoryID == 0 {
		b.showAdminMenu(ev, sess, "❌ The pending brand was lost. Start over.")
		return
	}

	_, err := b.writer.InsertProduct(ctx, draft.Name, draft.CategoryID)
	switch {
	case errors.Is(err, store.ErrBrandExists):
		b.showAdminMenu(ev, sess, fmt.Sprintf("❌ Brand %q already exists in this category.", draft.Name))
	case errors.Is(err, store.ErrCategoryNotFound):
		b.showAdminMenu(ev, sess, "❌ That category no longer exists.")
	case err != nil:
		b.failAdmin(ev, sess, err)
	default:
		b.showAdminMenu(ev, sess, fmt.Sprintf("✅ Brand %q added.", draft.Name))
	}
}

// --- Add variant ---

func (b *Bot) addVariantStart(ctx context.Context, ev Event, sess *session.Session) {
	sess.ClearDrafts()
	b.categoryPicker(ctx, ev, sess, TokenAddVariantCategory,
		"Choose a category for the new variant:", session.StateAddVariantCategory)
}

func (b *Bot) addVariantCategory(ctx context.Context, ev Event, sess *session.Session, categoryID int64) {
	sess.VariantDraft.CategoryID = categoryID

	brands, err := b.catalog.ListBrands(ctx, categoryID)
	if err != nil {
		b.failAdmin(ev, sess, err)
		return
	}
	if len(brands) == 0 {
		b.showAdminMenu(ev, sess, "No brands in this category. Add a brand first.")
		return
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(brands)+1)
	for _, p := range brands {
		data := Token{Kind: TokenAddVariantBrand, ID: p.ID}.String()
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(p.Brand, data)))
	}
	rows = append(rows, backRow(Token{Kind: TokenAdminBackMenu}))
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)

	b.render.Render(ev, "Choose a brand:", &kb)
	sess.State = session.StateAddVariantBrand
}

func (b *Bot) addVariantBrand(ev Event, sess *session.Session, productID int64) {
	sess.VariantDraft.ProductID = productID
	b.render.Render(ev, "Enter the option value (color or strength):", nil)
	sess.State = session.StateAddVariantOption
}

func (b *Bot) addVariantOption(ev Event, sess *session.Session) {
	option := strings.TrimSpace(ev.Text)
	if option == "" {
		b.render.Render(ev, "The option cannot be empty. Try again:", nil)
		return
	}
	sess.VariantDraft.Option = option
	b.render.Render(ev, "Enter the price (number):", nil)
	sess.State = session.StateAddVariantPrice
}

func (b *Bot) addVariantPrice(ev Event, sess *session.Session) {
	price, err := strconv.ParseFloat(strings.TrimSpace(ev.Text), 64)
	if err != nil || price < 0 {
		b.render.Render(ev, "Invalid price. Enter a non-negative number:", nil)
		return
	}
	sess.VariantDraft.Price = price
	b.render.Render(ev, "Enter the stock count (whole number):", nil)
	sess.State = session.StateAddVariantStock
}

func (b *Bot) addVariantStock(ev Event, sess *session.Session) {
	stock, err := strconv.Atoi(strings.TrimSpace(ev.Text))
	if err != nil || stock < 0 {
		b.render.Render(ev, "Invalid count. Enter a non-negative whole number:", nil)
		return
	}
	sess.VariantDraft.Stock = stock
	b.render.Render(ev, "Send a photo, an image URL, or '-' to skip:", nil)
	sess.State = session.StateAddVariantImage
}

// addVariantImage is the final step: it resolves the image input and commits
// the whole accumulated draft in one write.
func (b *Bot) addVariantImage(ctx context.Context, ev Event, sess *session.Session) {
	var image *string
	switch {
	case ev.PhotoFileID != "":
		image = &ev.PhotoFileID
	case ev.Text == "-":
		image = nil
	case strings.HasPrefix(ev.Text, "http"):
		image = &ev.Text
	default:
		b.render.Render(ev, "Unrecognized input. Send a photo, a URL, or '-':", nil)
		return
	}

	draft := sess.VariantDraft
	if draft.ProductID == 0 {
		// The scratchpad lost its target (expired session); never insert a
		// malformed row.
		b.showAdminMenu(ev, sess, "❌ The pending variant was lost. Start over.")
		return
	}

	nv := domain.NewVariant{
		ProductID: draft.ProductID,
		Option:    draft.Option,
		Price:     draft.Price,
		Stock:     draft.Stock,
		Image:     image,
	}
	if err := b.validate.Struct(nv); err != nil {
		b.logger.Warn("variant draft failed validation", zap.Error(err))
		b.showAdminMenu(ev, sess, "❌ The pending variant is incomplete. Start over.")
		return
	}

	_, err := b.writer.InsertVariant(ctx, nv)
	switch {
	case errors.Is(err, store.ErrProductNotFound):
		b.showAdminMenu(ev, sess, "❌ That brand no longer exists.")
	case err != nil:
		b.failAdmin(ev, sess, err)
	default:
		b.showAdminMenu(ev, sess, fmt.Sprintf("✅ Variant %q added.", nv.Option))
	}
}

// --- Delete ---

func (b *Bot) deleteStart(ev Event, sess *session.Session) {
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("Brand", Token{Kind: TokenDeleteBrandMenu}.String())),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("Variant", Token{Kind: TokenDeleteVariantMenu}.String())),
		backRow(Token{Kind: TokenAdminBackMenu}),
	)
	b.render.Render(ev, "What do you want to delete?", &kb)
	sess.State = session.StateDeleteMenu
}

func (b *Bot) delBrandCategories(ctx context.Context, ev Event, sess *session.Session) {
	b.categoryPicker(ctx, ev, sess, TokenDelBrandCategory,
		"Choose a category:", session.StateDeleteBrandCategory)
}

func (b *Bot) delBrandPick(ctx context.Context, ev Event, sess *session.Session, categoryID int64) {
	brands, err := b.catalog.ListBrands(ctx, categoryID)
	if err != nil {
		b.failAdmin(ev, sess, err)
		return
	}
	if len(brands) == 0 {
		b.showAdminMenu(ev, sess, "No brands in this category.")
		return
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(brands)+1)
	for _, p := range brands {
		label := p.Brand
		if p.VariantCount > 0 {
			label += " ⚠️"
		}
		data := Token{Kind: TokenDelBrandPick, ID: p.ID}.String()
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(label, data)))
	}
	rows = append(rows, backRow(Token{Kind: TokenAdminBackMenu}))
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)

	b.render.Render(ev, "Choose a brand to delete:", &kb)
	sess.State = session.StateDeleteBrandPick
}

func (b *Bot) delBrandConfirm(ctx context.Context, ev Event, sess *session.Session, productID int64) {
	product, err := b.catalog.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			b.showAdminMenu(ev, sess, "That brand no longer exists.")
			return
		}
		b.failAdmin(ev, sess, err)
		return
	}

	count, err := b.catalog.CountVariants(ctx, productID)
	if err != nil {
		b.failAdmin(ev, sess, err)
		return
	}

	text := fmt.Sprintf("Delete brand %q?", product.Brand)
	if count > 0 {
		text += fmt.Sprintf("\n\n⚠️ This brand has %d variant(s); they will be deleted as well.", count)
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("✅ Delete", Token{Kind: TokenDelBrandFinalYes, ID: productID}.String())),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", Token{Kind: TokenAdminBackMenu}.String())),
	)
	b.render.Render(ev, text, &kb)
	sess.State = session.StateDeleteBrandConfirm
}

func (b *Bot) delBrandCommit(ctx context.Context, ev Event, sess *session.Session, productID int64) {
	err := b.writer.DeleteProduct(ctx, productID)
	switch {
	case errors.Is(err, store.ErrProductNotFound):
		b.showAdminMenu(ev, sess, "That brand no longer exists.")
	case err != nil:
		b.failAdmin(ev, sess, err)
	default:
		b.showAdminMenu(ev, sess, "✅ Brand deleted.")
	}
}

func (b *Bot) delVariantCategories(ctx context.Context, ev Event, sess *session.Session) {
	b.categoryPicker(ctx, ev, sess, TokenDelVariantCategory,
		"Choose a category:", session.StateDeleteVariantCategory)
}

func (b *Bot) delVariantBrands(ctx context.Context, ev Event, sess *session.Session, categoryID int64) {
	brands, err := b.catalog.ListBrands(ctx, categoryID)
	if err != nil {
		b.failAdmin(ev, sess, err)
		return
	}
	if len(brands) == 0 {
		b.showAdminMenu(ev, sess, "No brands in this category.")
		return
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(brands)+1)
	for _, p := range brands {
		data := Token{Kind: TokenDelVariantBrand, ID: p.ID}.String()
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(p.Brand, data)))
	}
	rows = append(rows, backRow(Token{Kind: TokenAdminBackMenu}))
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)

	b.render.Render(ev, "Choose a brand:", &kb)
	sess.State = session.StateDeleteVariantBrand
}

func (b *Bot) delVariantPick(ctx context.Context, ev Event, sess *session.Session, productID int64) {
	variants, err := b.catalog.ListVariants(ctx, productID)
	if err != nil {
		b.failAdmin(ev, sess, err)
		return
	}
	if len(variants) == 0 {
		b.showAdminMenu(ev, sess, "This brand has no variants.")
		return
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(variants)+1)
	for _, v := range variants {
		label := fmt.Sprintf("%s — %s (%d pcs)", v.Option, formatPrice(v.Price), v.Stock)
		data := Token{Kind: TokenDelVariantConfirm, ID: v.ID}.String()
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(label, data)))
	}
	rows = append(rows, backRow(Token{Kind: TokenAdminBackMenu}))
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)

	b.render.Render(ev, "Choose a variant to delete:", &kb)
	sess.State = session.StateDeleteVariantPick
}

func (b *Bot) delVariantCommit(ctx context.Context, ev Event, sess *session.Session, variantID int64) {
	detail, err := b.catalog.GetVariantDetail(ctx, variantID)
	if err != nil {
		if errors.Is(err, store.ErrVariantNotFound) {
			b.showAdminMenu(ev, sess, "That variant no longer exists.")
			return
		}
		b.failAdmin(ev, sess, err)
		return
	}

	err = b.writer.DeleteVariant(ctx, variantID)
	switch {
	case errors.Is(err, store.ErrVariantNotFound):
		b.showAdminMenu(ev, sess, "That variant no longer exists.")
	case err != nil:
		b.failAdmin(ev, sess, err)
	default:
		b.showAdminMenu(ev, sess, fmt.Sprintf("✅ Variant %q deleted.", detail.Option))
	}
}
