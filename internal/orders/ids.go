package orders

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lithammer/shortuuid/v3"
)

func newOrderID() string {
	return uuid.New().String()
}

// newPNR is a base36 millisecond timestamp followed by a random suffix.
func newPNR(now time.Time) string {
	stamp := strconv.FormatInt(now.UnixMilli(), 36)
	return "PNR" + strings.ToUpper(stamp+shortuuid.New()[:4])
}

func newTransactionID() string {
	return "TXN-" + uuid.New().String()
}
