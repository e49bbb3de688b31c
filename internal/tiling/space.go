package tiling

import "github.com/1broseidon/tilewm/internal/platform"

// space holds the per-desktop tiling order. Each screen has its own
// ordered list; slot 0 is the screen's main slot.
type space struct {
	lists map[string][]platform.WindowID
	// mains remembers the last observed main occupant per screen.
	mains map[string]platform.WindowID
	// lastMains holds, per screen, the window that held the main slot
	// before the current occupant.
	lastMains map[string]platform.WindowID
	// dirty screens are retiled on the next sync.
	dirty map[string]bool
}

func newSpace() *space {
	return &space{
		lists: make(map[string][]platform.WindowID),
		mains:     make(map[string]platform.WindowID),
		lastMains: make(map[string]platform.WindowID),
		dirty:     make(map[string]bool),
	}
}

// locate returns the screen and slot of id.
func (s *space) locate(id platform.WindowID) (string, int, bool) {
	for screenID, ids := range s.lists {
		for i, candidate := range ids {
			if candidate == id {
				return screenID, i, true
			}
		}
	}
	return "", 0, false
}

func (s *space) contains(id platform.WindowID) bool {
	_, _, ok := s.locate(id)
	return ok
}

func (s *space) remove(screenID string, slot int) {
	ids := s.lists[screenID]
	s.lists[screenID] = append(ids[:slot:slot], ids[slot+1:]...)
}

func (s *space) push(screenID string, id platform.WindowID) {
	s.lists[screenID] = append(s.lists[screenID], id)
}

// prune drops windows for which keep returns false.
func (s *space) prune(keep func(platform.WindowID) bool) {
	for screenID, ids := range s.lists {
		kept := make([]platform.WindowID, 0, len(ids))
		for _, id := range ids {
			if keep(id) {
				kept = append(kept, id)
			}
		}
		if len(kept) != len(ids) {
			s.dirty[screenID] = true
		}
		s.lists[screenID] = kept
	}
	s.dropStaleLastMains()
}

// onScreen reports whether id is in screenID's list.
func (s *space) onScreen(screenID string, id platform.WindowID) bool {
	for _, candidate := range s.lists[screenID] {
		if candidate == id {
			return true
		}
	}
	return false
}

// lastMainOf returns the previous main of screenID while it still sits on
// that screen.
func (s *space) lastMainOf(screenID string) (platform.WindowID, bool) {
	id, ok := s.lastMains[screenID]
	if !ok || !s.onScreen(screenID, id) {
		return 0, false
	}
	return id, true
}

// dropStaleLastMains forgets previous mains that left their screen.
func (s *space) dropStaleLastMains() {
	for screenID, id := range s.lastMains {
		if !s.onScreen(screenID, id) {
			delete(s.lastMains, screenID)
		}
	}
}

// forgetScreen drops all state of an unplugged screen.
func (s *space) forgetScreen(screenID string) {
	delete(s.lists, screenID)
	delete(s.mains, screenID)
	delete(s.lastMains, screenID)
}

// trackMains records, per screen, the previous occupant of a main slot
// that changed hands, provided it is still on that screen. A main that
// moved to another screen is never recorded, so swapping back to it never
// moves windows between screens.
func (s *space) trackMains(screenIDs []string) {
	for _, screenID := range screenIDs {
		var current platform.WindowID
		if ids := s.lists[screenID]; len(ids) > 0 {
			current = ids[0]
		}
		if prev, ok := s.mains[screenID]; ok && prev != current && s.onScreen(screenID, prev) {
			s.lastMains[screenID] = prev
		}
		if current == 0 {
			delete(s.mains, screenID)
		} else {
			s.mains[screenID] = current
		}
	}
	s.dropStaleLastMains()
}
