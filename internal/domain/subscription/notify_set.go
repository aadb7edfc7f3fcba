package subscription

// NotifySet is a deduplicated set of recipient emails. Iteration follows
// insertion order so that batches are built deterministically.
type NotifySet struct {
	index  map[string]struct{}
	emails []string
}

func NewNotifySet() *NotifySet {
	return &NotifySet{index: make(map[string]struct{})}
}

// Add inserts email and reports whether it was not already present.
func (s *NotifySet) Add(email string) bool {
	if _, ok := s.index[email]; ok {
		return false
	}
	s.index[email] = struct{}{}
	s.emails = append(s.emails, email)
	return true
}

func (s *NotifySet) Contains(email string) bool {
	_, ok := s.index[email]
	return ok
}

func (s *NotifySet) Len() int {
	return len(s.emails)
}

// Emails returns a copy of the set contents in insertion order.
func (s *NotifySet) Emails() []string {
	out := make([]string, len(s.emails))
	copy(out, s.emails)
	return out
}
