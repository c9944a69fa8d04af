package backup

import (
	"sync"

	"github.com/cockroachdb/errors"
)

// EnsureBackedUp backs file up at most once per Manager, before its first
// modification. A missing file needs no backup.
//
// A failed backup is forgotten so the next call retries it.
func (m *Manager) EnsureBackedUp(file string) error {
	scope := Scope(file)

	m.mu.Lock()
	once, ok := m.once[scope]
	if !ok {
		once = &sync.Once{}
		m.once[scope] = once
	}
	m.mu.Unlock()

	var err error
	once.Do(func() {
		_, err = m.Backup(file)
		if errors.Is(err, ErrNothingToBackUp) {
			err = nil
		}
		if err != nil {
			m.mu.Lock()
			delete(m.once, scope)
			m.mu.Unlock()
		}
	})
	if err != nil {
		return errors.Wrapf(err, "creating backup for %s", file)
	}
	return nil
}
