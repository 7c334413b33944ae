package savev1

import (
	"encoding/gob"
	"io"
)

// Save writes cache using gob, the same encoding the legacy pre-v1 loader
// falls back to when it can't find the magic header. The teacher's v1
// format depended on a generated protobuf package that isn't available
// here, so v1 is rebuilt on encoding/gob instead of inventing a wire
// format to stand in for the missing generated code.
func Save(w io.Writer, cache Cache) error {
	return gob.NewEncoder(w).Encode(cache)
}
