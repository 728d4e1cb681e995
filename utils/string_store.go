package utils

import (
	"sync"
)

var storeStoreInstance *stringStoreImpl
var stringStoreInitializer sync.Once

// StringStore interns strings repeated across dictionary entries (lemmas,
// tags) so that every lexeme shares one copy.
type StringStore interface {
	Intern(s string) string
	InternAll(ss []string) []string

	// When all dictionaries are loaded the store is locked and stops
	// remembering new strings.
	Lock()
	IsLocked() bool
}

type stringStoreImpl struct {
	store    sync.Map //map[string]string
	mu       sync.RWMutex
	isLocked bool
}

func (stringStore *stringStoreImpl) Intern(s string) string {
	if !stringStore.IsLocked() {
		v, _ := stringStore.store.LoadOrStore(s, s)
		return v.(string)
	}

	v, ok := stringStore.store.Load(s)
	if !ok {
		return s
	}

	return v.(string)
}

func (stringStore *stringStoreImpl) InternAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = stringStore.Intern(s)
	}
	return out
}

func (stringStore *stringStoreImpl) Lock() {
	stringStore.mu.Lock()
	defer stringStore.mu.Unlock()
	stringStore.isLocked = true
}

func (stringStore *stringStoreImpl) IsLocked() bool {
	stringStore.mu.RLock()
	defer stringStore.mu.RUnlock()
	return stringStore.isLocked
}

func GlobalStringStore() StringStore {
	stringStoreInitializer.Do(func() {
		storeStoreInstance = new(stringStoreImpl)
	})

	return storeStoreInstance
}
