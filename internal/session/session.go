// Package session holds the per-chat conversational state: the current state
// machine position plus the typed scratch fields accumulated by the admin
// wizards. Partial wizard input lives here and only here until the final
// confirmation step commits it to the catalog store.
package session

import (
	"context"
	"sync"
	"time"
)

// State identifies a position in the conversation state machine.
type State int

const (
	// Shopper flow
	StateShopCategories State = iota
	StateShopBrands
	StateShopVariants

	// Admin root
	StateAdminMenu

	// Add-brand wizard
	StateAddBrandCategory
	StateAddBrandName
	StateAddBrandConfirm

	// Add-variant wizard
	StateAddVariantCategory
	StateAddVariantBrand
	StateAddVariantOption
	StateAddVariantPrice
	StateAddVariantStock
	StateAddVariantImage

	// Delete wizards
	StateDeleteMenu
	StateDeleteBrandCategory
	StateDeleteBrandPick
	StateDeleteBrandConfirm
	StateDeleteVariantCategory
	StateDeleteVariantBrand
	StateDeleteVariantPick
)

// IsAdmin reports whether the state belongs to the privileged admin region.
// Free-text events arriving while a session sits in such a state must pass the
// access guard before being handled.
func (s State) IsAdmin() bool {
	return s >= StateAdminMenu
}

// BrandDraft is the add-brand wizard scratchpad.
type BrandDraft struct {
	CategoryID int64  `json:"category_id,omitempty"`
	Name       string `json:"name,omitempty"`
}

// VariantDraft is the add-variant wizard scratchpad. Image holds a Telegram
// file ID or URL; empty means no image was supplied yet (or it was skipped).
type VariantDraft struct {
	CategoryID int64   `json:"category_id,omitempty"`
	ProductID  int64   `json:"product_id,omitempty"`
	Option     string  `json:"option,omitempty"`
	Price      float64 `json:"price,omitempty"`
	Stock      int     `json:"stock,omitempty"`
	Image      string  `json:"image,omitempty"`
}

// Session is the conversational context for one chat.
type Session struct {
	ChatID       int64        `json:"chat_id"`
	State        State        `json:"state"`
	BrandDraft   BrandDraft   `json:"brand_draft,omitempty"`
	VariantDraft VariantDraft `json:"variant_draft,omitempty"`
}

// Reset returns the session to the shop root and clears all wizard scratch
// fields. Used on /start, on access rejection, and whenever a wizard
// terminates.
func (s *Session) Reset() {
	s.State = StateShopCategories
	s.BrandDraft = BrandDraft{}
	s.VariantDraft = VariantDraft{}
}

// ClearDrafts drops pending wizard input without touching the state.
func (s *Session) ClearDrafts() {
	s.BrandDraft = BrandDraft{}
	s.VariantDraft = VariantDraft{}
}

// Store persists sessions keyed by chat id. Get returns a fresh session at the
// shop root when none exists (or when the stored one has expired).
type Store interface {
	Get(ctx context.Context, chatID int64) (*Session, error)
	Put(ctx context.Context, sess *Session) error
	Delete(ctx context.Context, chatID int64) error
}

type memoryEntry struct {
	sess      Session
	updatedAt time.Time
}

// MemoryStore is the default in-process session store. With a zero TTL,
// sessions live until process restart; a positive TTL expires idle sessions
// lazily on the next Get.
type MemoryStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[int64]memoryEntry
	now      func() time.Time
}

// NewMemoryStore creates a MemoryStore with the given idle TTL (0 = never
// expire).
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:      ttl,
		sessions: make(map[int64]memoryEntry),
		now:      time.Now,
	}
}

func (m *MemoryStore) Get(_ context.Context, chatID int64) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.sessions[chatID]
	if ok && m.ttl > 0 && m.now().Sub(entry.updatedAt) > m.ttl {
		delete(m.sessions, chatID)
		ok = false
	}
	if !ok {
		return &Session{ChatID: chatID, State: StateShopCategories}, nil
	}
	sess := entry.sess
	return &sess, nil
}

func (m *MemoryStore) Put(_ context.Context, sess *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.ChatID] = memoryEntry{sess: *sess, updatedAt: m.now()}
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, chatID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, chatID)
	return nil
}
