package recommender

import "github.com/fdg312/bioboard/internal/meals"

// similarityFloor admits a candidate that brings no new slot or cuisine.
const similarityFloor = 0.5

var standardSlots = [3]string{meals.SlotBreakfast, meals.SlotLunch, meals.SlotDinner}

// selector is the greedy diversity pass over a ranked candidate list.
type selector struct {
	corpus     []meals.Record
	ranked     []candidate
	n          int
	omnivore   bool
	meatTarget int
	hasSlots   bool

	picked   []candidate
	used     map[int]bool
	cuisines map[string]bool
	slots    map[string]bool
	meat     int
}

func newSelector(corpus []meals.Record, ranked []candidate, n int, omnivore bool, meatRatio float64, hasSlots bool) *selector {
	s := &selector{
		corpus:   corpus,
		ranked:   ranked,
		n:        n,
		omnivore: omnivore,
		hasSlots: hasSlots,
	}
	if omnivore {
		s.meatTarget = int(float64(n) * meatRatio)
	}
	s.reset(nil)
	return s
}

// selectMeals runs every pass and returns the picks in output order.
// Output order is not pure similarity order: a 3-meal plan covering
// Breakfast, Lunch and Dinner comes back in that slot sequence.
func selectMeals(corpus []meals.Record, ranked []candidate, n int, omnivore bool, meatRatio float64, hasSlots bool) []candidate {
	s := newSelector(corpus, ranked, n, omnivore, meatRatio, hasSlots)
	s.greedyPass()
	s.slotPass()
	s.fillPass()
	s.slotGuard()
	s.repairMeatQuota()
	s.orderBySlot()
	return s.picked
}

func (s *selector) reset(picks []candidate) {
	s.picked = s.picked[:0]
	s.used = make(map[int]bool)
	s.cuisines = make(map[string]bool)
	s.slots = make(map[string]bool)
	s.meat = 0
	for _, c := range picks {
		s.take(c)
	}
}

func (s *selector) take(c candidate) {
	s.picked = append(s.picked, c)
	s.used[c.index] = true
	r := s.corpus[c.index]
	if r.Cuisine != "" {
		s.cuisines[r.Cuisine] = true
	}
	if r.Slot != "" {
		s.slots[r.Slot] = true
	}
	if c.meat {
		s.meat++
	}
}

func (s *selector) full() bool { return len(s.picked) >= s.n }

func (s *selector) slotOf(c candidate) string { return s.corpus[c.index].Slot }

// novel reports whether c adds an unused slot tag or an unused cuisine.
func (s *selector) novel(c candidate) bool {
	r := s.corpus[c.index]
	if s.hasSlots && r.Slot != "" && !s.slots[r.Slot] {
		return true
	}
	return r.Cuisine != "" && !s.cuisines[r.Cuisine]
}

func (s *selector) greedyPass() {
	for _, c := range s.ranked {
		if s.full() {
			return
		}
		if len(s.picked) == 0 {
			s.take(c)
			continue
		}
		admit := s.novel(c) || c.similarity > similarityFloor
		if s.omnivore && s.meat < s.meatTarget && !c.meat {
			// Non-meat picks compete only while they leave room for the meat target.
			if len(s.picked)-s.meat >= s.n-s.meatTarget {
				continue
			}
		}
		if admit {
			s.take(c)
		}
	}
}

func (s *selector) slotPass() {
	if s.full() || !s.hasSlots {
		return
	}
	for _, slot := range standardSlots {
		if s.full() {
			return
		}
		if s.slots[slot] {
			continue
		}
		if c, ok := s.best(func(c candidate) bool { return s.slotOf(c) == slot }); ok {
			s.take(c)
		}
	}
}

func (s *selector) fillPass() {
	if s.omnivore {
		for !s.full() && s.meat < s.meatTarget {
			c, ok := s.best(func(c candidate) bool { return c.meat })
			if !ok {
				break
			}
			s.take(c)
		}
	}
	for !s.full() {
		c, ok := s.best(nil)
		if !ok {
			return
		}
		s.take(c)
	}
}

// best returns the highest ranked unused candidate accepted by match.
func (s *selector) best(match func(candidate) bool) (candidate, bool) {
	for _, c := range s.ranked {
		if s.used[c.index] {
			continue
		}
		if match == nil || match(c) {
			return c, true
		}
	}
	return candidate{}, false
}

func (s *selector) guardApplies() bool { return s.n == 3 && s.hasSlots }

func (s *selector) coversStandardSlots() bool {
	for _, slot := range standardSlots {
		if !s.slots[slot] {
			return false
		}
	}
	return true
}

// slotGuard rebuilds a 3-meal selection from the best candidate per slot when
// the greedy result misses one of Breakfast, Lunch or Dinner.
func (s *selector) slotGuard() {
	if !s.guardApplies() || s.coversStandardSlots() {
		return
	}

	greedy := append([]candidate(nil), s.picked...)
	s.reset(nil)
	for _, slot := range standardSlots {
		c, ok := s.best(func(c candidate) bool { return s.slotOf(c) == slot })
		if !ok {
			c, ok = s.best(nil)
		}
		if ok {
			s.take(c)
		}
	}
	if len(s.picked) < 3 {
		s.reset(greedy)
	}
}

// repairMeatQuota swaps unused meat candidates with positive similarity in for
// the weakest non-meat picks while the omnivore meat target is unmet. Under
// the slot guard a swap keeps the replaced meal's slot.
func (s *selector) repairMeatQuota() {
	if !s.omnivore || s.meat >= s.meatTarget {
		return
	}
	for _, c := range s.ranked {
		if s.meat >= s.meatTarget {
			return
		}
		if s.used[c.index] || !c.meat || c.similarity <= 0 {
			continue
		}
		victim := -1
		for i, p := range s.picked {
			if p.meat {
				continue
			}
			if s.guardApplies() && s.slotOf(p) != s.slotOf(c) {
				continue
			}
			if victim < 0 || p.similarity < s.picked[victim].similarity {
				victim = i
			}
		}
		if victim < 0 {
			continue
		}
		delete(s.used, s.picked[victim].index)
		s.picked[victim] = c
		s.used[c.index] = true
		s.meat++
	}
}

// orderBySlot puts a 3-meal selection covering Breakfast, Lunch and Dinner in
// that order.
func (s *selector) orderBySlot() {
	if !s.guardApplies() || len(s.picked) != 3 {
		return
	}
	ordered := make([]candidate, 0, 3)
	for _, slot := range standardSlots {
		found := false
		for _, p := range s.picked {
			if s.slotOf(p) == slot {
				if found {
					return
				}
				ordered = append(ordered, p)
				found = true
			}
		}
		if !found {
			return
		}
	}
	s.picked = ordered
}
