package bot

// Guard is the capability check gating every privileged transition. The
// allow-list is fixed at process start; authorization is re-evaluated on every
// event, so removing an identity from the list takes effect immediately even
// against replayed admin tokens.
type Guard struct {
	admins map[int64]struct{}
}

func NewGuard(adminIDs []int64) *Guard {
	admins := make(map[int64]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = struct{}{}
	}
	return &Guard{admins: admins}
}

// Authorize reports whether the identity may enter the privileged region.
func (g *Guard) Authorize(userID int64) bool {
	_, ok := g.admins[userID]
	return ok
}
