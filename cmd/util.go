package main

import "os"

// createTruncated opens path for writing, creating it if necessary and
// truncating any existing content.
func createTruncated(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
}
