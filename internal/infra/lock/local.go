package lock

import (
	"context"
	"fmt"
	"sync"
)

// LocalLocker блокировки по ключу внутри одного процесса.
// Подходит для запуска в один экземпляр и для тестов.
type LocalLocker struct {
	mu    sync.Mutex
	locks map[string]*localEntry
}

type localEntry struct {
	sem     chan struct{}
	waiters int
}

// NewLocalLocker создает локальный менеджер блокировок
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{locks: make(map[string]*localEntry)}
}

// Lock берет блокировку key, ожидая не дольше, чем живет ctx
func (l *LocalLocker) Lock(ctx context.Context, key string) (UnlockFunc, error) {
	l.mu.Lock()
	entry, ok := l.locks[key]
	if !ok {
		entry = &localEntry{sem: make(chan struct{}, 1)}
		l.locks[key] = entry
	}
	entry.waiters++
	l.mu.Unlock()

	select {
	case entry.sem <- struct{}{}:
	case <-ctx.Done():
		l.release(key, entry, false)
		return nil, fmt.Errorf("%w: %s: %v", ErrLockTimeout, key, ctx.Err())
	}

	var once sync.Once
	return func() {
		once.Do(func() { l.release(key, entry, true) })
	}, nil
}

func (l *LocalLocker) release(key string, entry *localEntry, held bool) {
	if held {
		<-entry.sem
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	entry.waiters--
	if entry.waiters == 0 {
		delete(l.locks, key)
	}
}
