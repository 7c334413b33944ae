package savev1

import (
	"encoding/gob"
	"io"
)

func Load(r io.Reader) (Cache, error) {
	var cache Cache
	err := gob.NewDecoder(r).Decode(&cache)
	if err != nil {
		return Cache{}, err
	}
	return cache, nil
}
