package services

import (
	"sync"

	"github.com/talentlink/talentlink-client/internal/client/models"
)

// Inbox is the in-memory general notification list. Newest first; ids are
// unique; nothing survives a restart.
type Inbox struct {
	mu     sync.Mutex
	items  []*models.Notification
	ids    map[string]struct{}
	unread int
}

func NewInbox() *Inbox {
	return &Inbox{ids: make(map[string]struct{})}
}

// Add prepends n and bumps the unread count. A duplicate id is rejected.
func (i *Inbox) Add(n *models.Notification) bool {
	i.mu.Lock()
	defer i.mu.Unlock()

	if _, dup := i.ids[n.ID]; dup {
		return false
	}
	i.ids[n.ID] = struct{}{}
	i.items = append([]*models.Notification{n}, i.items...)
	if !n.Read {
		i.unread++
	}
	return true
}

// Notifications returns a snapshot, newest first.
func (i *Inbox) Notifications() []*models.Notification {
	i.mu.Lock()
	defer i.mu.Unlock()

	out := make([]*models.Notification, len(i.items))
	for idx, n := range i.items {
		copied := *n
		out[idx] = &copied
	}
	return out
}

func (i *Inbox) UnreadCount() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.unread
}

// MarkRead marks one notification as seen. Returns false for an unknown id.
func (i *Inbox) MarkRead(id string) bool {
	i.mu.Lock()
	defer i.mu.Unlock()

	for _, n := range i.items {
		if n.ID == id {
			if !n.Read {
				n.Read = true
				i.unread--
			}
			return true
		}
	}
	return false
}

func (i *Inbox) MarkAllRead() {
	i.mu.Lock()
	defer i.mu.Unlock()

	for _, n := range i.items {
		n.Read = true
	}
	i.unread = 0
}

// Clear drops everything.
func (i *Inbox) Clear() {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.items = nil
	i.ids = make(map[string]struct{})
	i.unread = 0
}
