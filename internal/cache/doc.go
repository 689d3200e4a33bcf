// Package cache provides a small generic LRU cache.
//
//	c := cache.New[uuid.UUID, *sketch.Pixmap](8)
//	c.Set(id, pm)
//	pm, ok := c.Get(id)
//
// Cache is safe for concurrent use and must not be copied after creation.
package cache
