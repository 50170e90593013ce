package toolchain

import (
	"crypto/md5"
	"encoding/hex"
	"path/filepath"
	"strings"
)

// FileID computes the last four hex digits of the MD5 digest of the
// concatenated basenames of inputs, in the given order — the value baked
// into generated objects as the FILE_ID define when gen_fileid resolves
// true. MD5 is used verbatim (not xxhash) because this value is an
// externally-visible C #define that downstream code may already depend on
// bit-for-bit.
func FileID(inputs []string) string {
	var basenames strings.Builder
	for _, in := range inputs {
		basenames.WriteString(filepath.Base(in))
	}
	sum := md5.Sum([]byte(basenames.String()))
	hexDigest := hex.EncodeToString(sum[:])
	return hexDigest[len(hexDigest)-4:]
}
