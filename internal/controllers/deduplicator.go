package controllers

import (
	"context"
	"sync"
	"time"
)

// RequestDeduplicator гасит повторы одного и того же запроса в коротком окне.
type RequestDeduplicator struct {
	locks sync.Map
	now   func() time.Time
}

func NewRequestDeduplicator() *RequestDeduplicator {
	return &RequestDeduplicator{now: time.Now}
}

// TryAcquire возвращает false, если такой же ключ уже был в пределах ttl.
func (d *RequestDeduplicator) TryAcquire(key string, ttl time.Duration) bool {
	now := d.now()

	if val, exists := d.locks.Load(key); exists {
		expiry := val.(time.Time)
		if now.Before(expiry) {
			return false
		}
	}

	d.locks.Store(key, now.Add(ttl))
	return true
}

// Release снимает ключ, чтобы исправленный запрос не считался повтором.
func (d *RequestDeduplicator) Release(key string) {
	d.locks.Delete(key)
}

func (d *RequestDeduplicator) Cleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := d.now()
			d.locks.Range(func(key, value interface{}) bool {
				expiry := value.(time.Time)
				if now.After(expiry) {
					d.locks.Delete(key)
				}
				return true
			})
		}
	}
}
