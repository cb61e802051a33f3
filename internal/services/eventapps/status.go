// Package eventapps computes the per-event app/platform views: the
// association aggregation, the add-platform eligibility sets and the
// multi-facet filtering used by the event apps screen.
package eventapps

import "strings"

// okStatusPrefix marks participation statuses that count as confirmed.
const okStatusPrefix = "OK_"

// IsStatusOK reports whether a participation status counts as OK. An
// empty status (no participation record) is not OK.
func IsStatusOK(status string) bool {
	return strings.HasPrefix(status, okStatusPrefix)
}
