package config

import (
	"encoding/hex"
	"os"
	"path/filepath"

	"github.com/zeebo/blake3"
)

// hashFiles computes one BLAKE3 hash over the concatenated contents of
// the given files, resolving relative paths against cwd. Any content
// change in any file changes the result.
func hashFiles(cwd string, files []string) (string, error) {
	h := blake3.New()
	for _, file := range files {
		path := file
		if !filepath.IsAbs(path) {
			path = filepath.Join(cwd, path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		h.Write(data)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// combineCacheKey merges the user-supplied root cache key with the hash
// of all per-command cacheKeyFiles hashes. An empty result means the
// configuration carries no cache key of its own.
func combineCacheKey(rootKey string, fileHashes []string) string {
	filesKey := ""
	if len(fileHashes) > 0 {
		h := blake3.New()
		for _, hash := range fileHashes {
			h.Write([]byte(hash))
		}
		filesKey = hex.EncodeToString(h.Sum(nil))
	}

	switch {
	case rootKey != "" && filesKey != "":
		return rootKey + filesKey
	case rootKey != "":
		return rootKey
	default:
		return filesKey
	}
}
