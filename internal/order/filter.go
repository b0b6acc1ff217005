package order

import "strings"

// Filter narrows an order list by status and type. Both predicates are
// case-insensitive equality checks; a blank filter value passes everything.
// The input slice is never mutated and the result is never nil.
func Filter(orders []Order, status, orderType string) []Order {
	out := make([]Order, 0, len(orders))
	for _, o := range orders {
		if !matches(o.Status, status) || !matches(o.Type, orderType) {
			continue
		}
		out = append(out, o)
	}
	return out
}

func matches(value, want string) bool {
	if strings.TrimSpace(want) == "" {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(value), strings.TrimSpace(want))
}
