// Package avatar builds Gravatar image URLs for account emails.
package avatar

import (
	"crypto/md5"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/AlibekovAA/microblog/internal/common/constants"
)

// URL returns the Gravatar "mystery man" fallback variant for email at the
// given pixel size. A non-positive size uses DefaultAvatarSize.
func URL(email string, size int) string {
	if size <= 0 {
		size = constants.DefaultAvatarSize
	}
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return constants.AvatarBaseURL + hex.EncodeToString(sum[:]) + "?d=mm&s=" + strconv.Itoa(size)
}
