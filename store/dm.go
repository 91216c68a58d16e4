package store

import (
	"sort"

	"github.com/huddlehq/huddle"
)

// DM is the store-side direct-message record. Creator is 0 once the
// creator has left; a removed DM keeps its id and message list as
// tombstoned entries but loses name, creator and members.
type DM struct {
	ID       int64
	Name     string
	Creator  int64
	Members  []int64
	Messages []int64
	Removed  bool
}

// ToModel converts the store record into the public DM model.
func (d *DM) ToModel() *huddle.DirectMessage {
	return &huddle.DirectMessage{
		ID:   d.ID,
		Name: d.Name,
	}
}

// IsMember reports whether the user belongs to the DM.
func (d *DM) IsMember(userID int64) bool {
	return contains(d.Members, userID)
}

// RemoveMember drops the user from the member list. If the user is
// the creator the creator reference is cleared but the DM persists.
func (d *DM) RemoveMember(userID int64) {
	d.Members = remove(d.Members, userID)
	if d.Creator == userID {
		d.Creator = 0
	}
}

// Tombstone empties the DM while preserving its id. The message id
// list is kept so the ids stay reserved.
func (d *DM) Tombstone() {
	d.Name = ""
	d.Creator = 0
	d.Members = nil
	d.Removed = true
}

// CreateDM allocates the next DM id and stores a DM with the given
// name, creator and member list.
func (w *Workspace) CreateDM(name string, creator int64, members []int64) *DM {
	w.nextDMID++
	d := &DM{
		ID:      w.nextDMID,
		Name:    name,
		Creator: creator,
		Members: members,
	}
	w.dms[d.ID] = d
	return d
}

// DM looks a DM up by id. Tombstoned DMs are not returned.
func (w *Workspace) DM(id int64) (*DM, bool) {
	d, ok := w.dms[id]
	if !ok || d.Removed {
		return nil, false
	}
	return d, true
}

// DMsFor returns the DMs the user belongs to, ordered by id.
func (w *Workspace) DMsFor(userID int64) []*DM {
	ids := make([]int64, 0, len(w.dms))
	for id, d := range w.dms {
		if !d.Removed && d.IsMember(userID) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	dms := make([]*DM, 0, len(ids))
	for _, id := range ids {
		dms = append(dms, w.dms[id])
	}
	return dms
}
