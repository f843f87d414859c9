package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewReference builds a globally unique transaction reference like
// "DEP-1700000000-9f86d081". The timestamp keeps references roughly sortable;
// the uuid fragment makes collisions within a second practically impossible.
func NewReference(prefix string) string {
	frag := strings.Split(uuid.NewString(), "-")[0]
	return fmt.Sprintf("%s-%d-%s", prefix, time.Now().Unix(), frag)
}
