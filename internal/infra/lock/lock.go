package lock

import (
	"errors"
	"fmt"
)

var (
	// ErrLockTimeout возвращается, если блокировку не удалось взять до отмены контекста
	ErrLockTimeout = errors.New("lock: timed out waiting for lock")

	// ErrLockBackend возвращается при ошибке хранилища блокировок
	ErrLockBackend = errors.New("lock: backend error")
)

// UnlockFunc освобождает взятую блокировку. Повторный вызов ничего не делает.
type UnlockFunc func()

// SalonKey ключ блокировки календаря салона
func SalonKey(salonID int64) string {
	return fmt.Sprintf("salon:%d", salonID)
}
