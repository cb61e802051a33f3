package eventapps

import (
	"net/url"

	"github.com/pixelfest/eventdeck-go/internal/database/models"
)

// Filter is the declarative multi-facet filter over an aggregation.
// Facets combine with AND; values within a facet combine with OR. The
// platform and status facets are evaluated jointly per release: some
// single release must match both at once.
type Filter struct {
	Platforms []string
	Studios   []string
	Statuses  []string
	Types     []string
}

// IsZero reports whether no facet is active.
func (f Filter) IsZero() bool {
	return len(f.Platforms) == 0 && len(f.Studios) == 0 && len(f.Statuses) == 0 && len(f.Types) == 0
}

// ParseFilterQuery reads the bracketed filter convention used by the
// event apps screen: filters[platform][]=<id>&filters[status][]=<value>...
func ParseFilterQuery(values url.Values) Filter {
	return Filter{
		Platforms: facetValues(values, "platform"),
		Studios:   facetValues(values, "studio"),
		Statuses:  facetValues(values, "status"),
		Types:     facetValues(values, "type"),
	}
}

func facetValues(values url.Values, facet string) []string {
	var out []string
	for _, key := range []string{"filters[" + facet + "][]", "filters[" + facet + "]"} {
		for _, value := range values[key] {
			if value != "" {
				out = append(out, value)
			}
		}
	}
	return out
}

// Query re-encodes the filter into its query-string form.
func (f Filter) Query() url.Values {
	values := url.Values{}
	appendFacet(values, "platform", f.Platforms)
	appendFacet(values, "studio", f.Studios)
	appendFacet(values, "status", f.Statuses)
	appendFacet(values, "type", f.Types)
	return values
}

func appendFacet(values url.Values, facet string, facetValues []string) {
	for _, value := range facetValues {
		values.Add("filters["+facet+"][]", value)
	}
}

// Apply filters the aggregation. With no active facets the input is
// returned unchanged. Otherwise a new aggregation is built: an app
// survives when its scalar fields pass the studio/type facets and at
// least one of its releases passes the platform and status facets
// together; the platform list is rebuilt from exactly the releases that
// made their app survive, in first-discovery order.
func (f Filter) Apply(aggregation *Aggregation) *Aggregation {
	if f.IsZero() {
		return aggregation
	}

	filtered := &Aggregation{
		Apps:      []AppData{},
		Platforms: []models.Platform{},
		appIndex:  map[string]int{},
	}
	platformIndex := map[string]int{}

	for _, app := range aggregation.Apps {
		if len(f.Studios) > 0 && !containsString(f.Studios, app.StudioID) {
			continue
		}
		if len(f.Types) > 0 && !containsString(f.Types, app.Type) {
			continue
		}

		survives := false
		for _, release := range app.Releases {
			if len(f.Statuses) > 0 && !containsString(f.Statuses, release.Participation.Status) {
				continue
			}
			if len(f.Platforms) > 0 && !containsString(f.Platforms, release.PlatformID) {
				continue
			}
			survives = true
			if _, seen := platformIndex[release.PlatformID]; !seen && release.AppPlatform.Platform != nil {
				platformIndex[release.PlatformID] = len(filtered.Platforms)
				filtered.Platforms = append(filtered.Platforms, *release.AppPlatform.Platform)
			}
		}
		if !survives {
			continue
		}

		filtered.appIndex[app.ID] = len(filtered.Apps)
		filtered.Apps = append(filtered.Apps, app)
	}

	return filtered
}

func containsString(values []string, v string) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}
