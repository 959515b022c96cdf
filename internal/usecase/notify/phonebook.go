package notify

import (
	"sync"
)

// PhoneBook holds the numbers registered for broadcast notifications
type PhoneBook interface {
	Add(number string) bool
	List() []string
}

// InMemoryPhoneBook is a process-local PhoneBook safe for concurrent use
type InMemoryPhoneBook struct {
	mu      sync.RWMutex
	numbers []string
	seen    map[string]struct{}
}

// NewInMemoryPhoneBook creates a phone book pre-populated with the given numbers
func NewInMemoryPhoneBook(numbers ...string) *InMemoryPhoneBook {
	pb := &InMemoryPhoneBook{seen: make(map[string]struct{})}
	for _, n := range numbers {
		pb.Add(n)
	}
	return pb
}

// Add registers a number. Returns false if it was already registered.
func (pb *InMemoryPhoneBook) Add(number string) bool {
	pb.mu.Lock()
	defer pb.mu.Unlock()

	if _, ok := pb.seen[number]; ok {
		return false
	}
	pb.seen[number] = struct{}{}
	pb.numbers = append(pb.numbers, number)
	return true
}

// List returns the registered numbers in registration order
func (pb *InMemoryPhoneBook) List() []string {
	pb.mu.RLock()
	defer pb.mu.RUnlock()

	out := make([]string, len(pb.numbers))
	copy(out, pb.numbers)
	return out
}
