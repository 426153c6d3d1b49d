package scan

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
)

// hashFile computes the hex-encoded SHA-256 of the file content using
// fixed-size chunked reads, keeping peak memory independent of file size.
// The returned byte count reflects bytes actually read, even when the read
// ends in an error.
func hashFile(path string, chunkSize int) (string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	h := sha256.New()
	buf := make([]byte, chunkSize)
	var total int64
	for {
		n, err := f.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
			total += int64(n)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", total, err
		}
	}
	return hex.EncodeToString(h.Sum(nil)), total, nil
}
