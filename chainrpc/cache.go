package chainrpc

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/p7r0x7/hashloop"
	"github.com/zeebo/xxh3"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.

// Cache remembers recent results by request record. Chains are deterministic, so a hit is as good
// as a recomputation. The least recently used entry goes first. A nil *Cache stores nothing.
type Cache struct {
	lru *lru.Cache[xxh3.Uint128, entry]
}

type entry struct {
	rec [RecordSize]byte /* Held to rule out xxh3 collisions. */
	w   hashloop.Word
}

func NewCache(size int) *Cache {
	if size <= 0 {
		return nil
	}
	l, err := lru.New[xxh3.Uint128, entry](size)
	if err != nil {
		panic(err) /* Only a non-positive size fails. */
	}
	return &Cache{lru: l}
}

func (c *Cache) Get(rec []byte) (hashloop.Word, bool) {
	if c == nil {
		return hashloop.Word{}, false
	}
	e, ok := c.lru.Get(xxh3.Hash128(rec))
	if !ok || string(e.rec[:]) != string(rec) {
		return hashloop.Word{}, false
	}
	return e.w, true
}

func (c *Cache) Put(rec []byte, w hashloop.Word) {
	if c == nil || len(rec) != RecordSize {
		return
	}
	e := entry{w: w}
	copy(e.rec[:], rec)
	c.lru.Add(xxh3.Hash128(rec), e)
}

func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	return c.lru.Len()
}
