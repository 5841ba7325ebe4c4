// Package cache menyediakan cache in-memory dengan TTL dan batas jumlah entry.
//
// Cache dimiliki oleh instance service yang memakainya (bukan singleton
// package) dan menerima clock dari luar supaya test bisa mengatur waktu.
package cache

import (
	"container/list"
	"sync"
	"time"
)

const (
	DefaultMaxEntries = 50
	DefaultTTL        = 5 * time.Minute
)

type entry[V any] struct {
	key       string
	value     V
	expiresAt time.Time
}

// TTL adalah cache LRU dengan masa berlaku per entry.
type TTL[V any] struct {
	mu         sync.Mutex
	maxEntries int
	ttl        time.Duration
	now        func() time.Time

	order *list.List // depan = paling baru dipakai
	items map[string]*list.Element
}

// New membuat cache. maxEntries<=0 dan ttl<=0 memakai default (50, 5 menit);
// now==nil memakai time.Now.
func New[V any](maxEntries int, ttl time.Duration, now func() time.Time) *TTL[V] {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if now == nil {
		now = time.Now
	}
	return &TTL[V]{
		maxEntries: maxEntries,
		ttl:        ttl,
		now:        now,
		order:      list.New(),
		items:      make(map[string]*list.Element),
	}
}

func (c *TTL[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	el, ok := c.items[key]
	if !ok {
		return zero, false
	}
	e := el.Value.(*entry[V])
	if !c.now().Before(e.expiresAt) {
		c.removeElement(el)
		return zero, false
	}
	c.order.MoveToFront(el)
	return e.value, true
}

func (c *TTL[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	exp := c.now().Add(c.ttl)
	if el, ok := c.items[key]; ok {
		e := el.Value.(*entry[V])
		e.value = value
		e.expiresAt = exp
		c.order.MoveToFront(el)
		return
	}

	el := c.order.PushFront(&entry[V]{key: key, value: value, expiresAt: exp})
	c.items[key] = el

	if c.order.Len() > c.maxEntries {
		c.evictLocked()
	}
}

func (c *TTL[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		c.removeElement(el)
	}
}

// Len menghitung entry yang masih berlaku.
func (c *TTL[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.purgeExpiredLocked()
	return c.order.Len()
}

func (c *TTL[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	c.items = make(map[string]*list.Element)
}

// evictLocked membuang entry kadaluarsa dulu; kalau masih penuh, buang yang
// paling lama tidak dipakai.
func (c *TTL[V]) evictLocked() {
	c.purgeExpiredLocked()
	for c.order.Len() > c.maxEntries {
		c.removeElement(c.order.Back())
	}
}

func (c *TTL[V]) purgeExpiredLocked() {
	now := c.now()
	for el := c.order.Back(); el != nil; {
		prev := el.Prev()
		if !now.Before(el.Value.(*entry[V]).expiresAt) {
			c.removeElement(el)
		}
		el = prev
	}
}

func (c *TTL[V]) removeElement(el *list.Element) {
	c.order.Remove(el)
	delete(c.items, el.Value.(*entry[V]).key)
}
