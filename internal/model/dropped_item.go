package model

import (
	"sync"
	"time"

	"github.com/udisondev/zonecell/internal/event"
)

// MapItem is an item lying on the ground.
type MapItem struct {
	*Entity

	itemID   int32
	count    int32
	ownerID  uint32 // 0 = anyone may pick it up
	dropTime time.Time

	mu     sync.Mutex
	expiry *time.Timer
}

// NewMapItem creates a dropped item. id is the instance id, itemID the
// item template.
func NewMapItem(id uint32, itemID, count int32, ownerID uint32, loc Location) *MapItem {
	return &MapItem{
		Entity:   NewEntity(id, event.EntityItem, "", loc),
		itemID:   itemID,
		count:    count,
		ownerID:  ownerID,
		dropTime: time.Now(),
	}
}

// ItemID returns the item template id.
func (i *MapItem) ItemID() int32 {
	return i.itemID
}

// Count returns the stack size.
func (i *MapItem) Count() int32 {
	return i.count
}

// OwnerID returns the player allowed to pick the item up (0 = anyone).
func (i *MapItem) OwnerID() uint32 {
	return i.ownerID
}

// DropTime returns when the item was dropped.
func (i *MapItem) DropTime() time.Time {
	return i.dropTime
}

// CanPickUp reports whether the player may take the item.
func (i *MapItem) CanPickUp(playerID uint32) bool {
	return i.ownerID == 0 || i.ownerID == playerID
}

// ScheduleExpiry runs fn after d unless StopExpiry is called first.
// A previous schedule is replaced.
func (i *MapItem) ScheduleExpiry(d time.Duration, fn func()) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.expiry != nil {
		i.expiry.Stop()
	}
	i.expiry = time.AfterFunc(d, fn)
}

// StopExpiry cancels a pending expiry.
func (i *MapItem) StopExpiry() {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.expiry != nil {
		i.expiry.Stop()
		i.expiry = nil
	}
}
