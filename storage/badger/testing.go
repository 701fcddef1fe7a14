package badger

import "github.com/iamshreeyyy/hackxr/storage"

// NewMemoryRepository creates an in-memory entry repository for testing.
// Caller must close the backend when done.
func NewMemoryRepository() (storage.IndexRepository, *Backend, error) {
	backend, err := OpenBackend()
	if err != nil {
		return nil, nil, err
	}
	return NewEntryRepository(backend), backend, nil
}
