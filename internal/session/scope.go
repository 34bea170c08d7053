package session

import (
	"github.com/samber/do"
)

// NewScope creates an injector holding a fresh session store. The scope owns
// the store: Close tears it down.
func NewScope() *do.Injector {
	injector := do.New()
	Provide(injector)
	return injector
}

// Provide registers a lazily created store in injector
func Provide(injector *do.Injector) {
	do.Provide(injector, func(*do.Injector) (*Store, error) {
		return NewStore(), nil
	})
}

// MustFrom resolves the session store from injector. It panics when the
// injector has no session: using the store outside a session is a bug.
func MustFrom(injector *do.Injector) *Store {
	return do.MustInvoke[*Store](injector)
}

// Close shuts the session scope down, resetting the store and dropping its
// observers.
func Close(injector *do.Injector) error {
	return injector.Shutdown()
}
