// Package cache provides a generic, thread-safe LRU cache with optional TTL.
//
//	c := cache.NewLRUCache[string, Preferences](1024, cache.WithTTL(time.Minute))
//	c.Put(userID, prefs)
//	prefs, ok := c.Get(userID)
package cache
