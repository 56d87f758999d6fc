// idgen/codes.go
package idgen

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// 固定前缀
const (
	ITAssetPrefix            = "ITMIT"
	RentMachinePrefix        = "NURENT"
	PermissionPrefix         = "PERM"
	EmployeePermissionPrefix = "EMPP"
	itemPrefix               = "ITM"
)

// 序号位数
const (
	ItemWidth               = 3
	ITAssetWidth            = 3
	RentMachineWidth        = 7
	PermissionWidth         = 3
	EmployeePermissionWidth = 3
	PurchaseOrderWidth      = 5
)

var ErrUnknownBranch = errors.New("unknown branch")

// item code 用的分厂后缀，未知分厂直接报错
var itemBranchSuffix = map[string]string{
	"Hettipola":   "H",
	"Mathara":     "M",
	"Welioya":     "W",
	"Bakamuna1":   "B1",
	"Bakamuna2":   "B2",
	"Sample Room": "SR",
}

// PO 编号用的分厂代码，未知分厂落到 X
var poBranchCode = map[string]string{
	"Bakamuna1":   "B1",
	"Bakamuna2":   "B2",
	"Hettipola":   "H",
	"Welioya":     "W",
	"Mathara":     "M",
	"Piliyandala": "P",
}

// ItemPrefix returns the item code prefix for a branch, e.g. "ITMH" for Hettipola.
func ItemPrefix(branch string) (string, error) {
	s, ok := itemBranchSuffix[strings.TrimSpace(branch)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownBranch, branch)
	}
	return itemPrefix + s, nil
}

// KnownItemBranch reports whether items can be coded for the branch.
func KnownItemBranch(branch string) bool {
	_, ok := itemBranchSuffix[strings.TrimSpace(branch)]
	return ok
}

// PurchaseOrderPrefix builds "{year}{code}/".
func PurchaseOrderPrefix(year int, branch string) string {
	code, ok := poBranchCode[strings.TrimSpace(branch)]
	if !ok {
		code = "X"
	}
	return strconv.Itoa(year) + code + "/"
}

// PurchaseOrderYear picks the year a PO number is issued under.
func PurchaseOrderYear(date time.Time) int {
	if date.IsZero() {
		return time.Now().Year()
	}
	return date.Year()
}

// Format zero-pads n to width after prefix. Wider numbers are kept as is.
func Format(prefix string, n int64, width int) string {
	return fmt.Sprintf("%s%0*d", prefix, width, n)
}

// ParseSuffix extracts the numeric tail of code after prefix.
func ParseSuffix(code, prefix string) (int64, bool) {
	if !strings.HasPrefix(code, prefix) {
		return 0, false
	}
	tail := code[len(prefix):]
	if tail == "" {
		return 0, false
	}
	for _, r := range tail {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseInt(tail, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
