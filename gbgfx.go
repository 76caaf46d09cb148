/*
Package gbgfx is a library for converting images into the tile data,
tilemaps and palettes used by the Game Boy and Game Boy Color, and for
turning those back into images.
*/
package gbgfx

import "log"

// Converter runs conversions, optionally backed by a cache of previous
// results.
type Converter struct {
	cache  *Cache
	logger *log.Logger
}

// New returns a Converter. If file is not empty it names the sqlite
// database used to cache results.
func New(file string, logger *log.Logger) (*Converter, error) {
	c := &Converter{
		logger: logger,
	}
	if file != "" {
		cache, err := OpenCache(file)
		if err != nil {
			return nil, err
		}
		c.cache = cache
	}
	return c, nil
}

// Close releases the cache, if any.
func (c *Converter) Close() error {
	if c.cache != nil {
		return c.cache.Close()
	}
	return nil
}
