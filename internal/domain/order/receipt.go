package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewReceiptNumber produces a candidate receipt number of the form
// <branchCode>-<YYYYMMDD>-<suffix>. The suffix disambiguates concurrent
// calls within a day; callers must still check uniqueness against persisted
// orders and retry on collision.
func NewReceiptNumber(branchCode string, now time.Time) string {
	suffix := strings.ToUpper(uuid.NewString()[:4])
	return fmt.Sprintf("%s-%s-%s", strings.ToUpper(branchCode), now.Format("20060102"), suffix)
}
