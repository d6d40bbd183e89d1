package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ikkim/hairable-backend/pkg/logger"
)

// Locker serializes work on a key across requests (and across instances when backed by redis).
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// acquireLock takes key and turns lock failures into rejections: giving up on a held
// lock is ErrResourceBusy, a broken lock backend is ErrLockFailed.
func acquireLock(ctx context.Context, locker Locker, key string) (func(), error) {
	release, err := locker.Acquire(ctx, key)
	if err == nil {
		return release, nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		logger.Warn("Lock wait abandoned", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return nil, ErrResourceBusy
	}
	logger.Error("Failed to acquire lock", err, map[string]interface{}{
		"key": key,
	})
	return nil, ErrLockFailed
}

func staffBookingKey(staffID uint) string {
	return fmt.Sprintf("booking:staff:%d", staffID)
}

func calendarKey(staffID uint, date string) string {
	return fmt.Sprintf("calendar:staff:%d:%s", staffID, date)
}

type keyedLock struct {
	ch   chan struct{}
	refs int
}

// MemoryLocker is an in-process Locker for single instance deployments and tests.
type MemoryLocker struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{locks: make(map[string]*keyedLock)}
}

func (l *MemoryLocker) Acquire(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	lock, ok := l.locks[key]
	if !ok {
		lock = &keyedLock{ch: make(chan struct{}, 1)}
		l.locks[key] = lock
	}
	lock.refs++
	l.mu.Unlock()

	select {
	case lock.ch <- struct{}{}:
	case <-ctx.Done():
		l.unref(key, lock)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-lock.ch
			l.unref(key, lock)
		})
	}, nil
}

func (l *MemoryLocker) unref(key string, lock *keyedLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	lock.refs--
	if lock.refs == 0 {
		delete(l.locks, key)
	}
}
