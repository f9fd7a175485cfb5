package chat

import (
	"fmt"
	"strconv"
	"strings"
)

// Callback action tags carried on inline buttons.
const (
	ActionSearch = "search"
	ActionStats  = "stats"
	ActionAccess = "access"
	ActionReset  = "reset"

	pageActionPrefix = "page"
)

// EncodePageAction encodes a ledger pagination target. The keyword goes last
// because it may itself contain separator characters.
func EncodePageAction(keyword string, offset int) string {
	return fmt.Sprintf("%s:%d:%s", pageActionPrefix, offset, keyword)
}

// DecodePageAction parses a pagination action tag. ok is false for anything
// that is not a well-formed page action.
func DecodePageAction(action string) (keyword string, offset int, ok bool) {
	parts := strings.SplitN(action, ":", 3)
	if len(parts) != 3 || parts[0] != pageActionPrefix {
		return "", 0, false
	}
	offset, err := strconv.Atoi(parts[1])
	if err != nil || offset < 0 {
		return "", 0, false
	}
	return parts[2], offset, true
}
