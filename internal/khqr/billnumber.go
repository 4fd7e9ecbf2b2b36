package khqr

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewBillNumber mints a fresh bill reference: a millisecond timestamp prefix
// with a random suffix. Collision-resistant at storefront volume; the
// ledger's unique index on bill_number is the backstop. Callers must never
// reuse a reference — every checkout attempt gets its own.
func NewBillNumber() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("KH-%d-%s", time.Now().UnixMilli(), strings.ToUpper(suffix))
}
