package eventapps

import (
	"net/url"
	"testing"

	"github.com/pixelfest/eventdeck-go/internal/database/models"
)

func TestParseFilterQuery(t *testing.T) {
	values, err := url.ParseQuery("filters[platform][]=p1&filters[platform][]=p2&filters[status][]=OK_Confirmed&filters[type]=Game")
	if err != nil {
		t.Fatalf("ParseQuery failed: %v", err)
	}

	filter := ParseFilterQuery(values)
	if len(filter.Platforms) != 2 || filter.Platforms[0] != "p1" || filter.Platforms[1] != "p2" {
		t.Errorf("Platforms = %v", filter.Platforms)
	}
	if len(filter.Statuses) != 1 || filter.Statuses[0] != "OK_Confirmed" {
		t.Errorf("Statuses = %v", filter.Statuses)
	}
	// The unbracketed form is accepted too.
	if len(filter.Types) != 1 || filter.Types[0] != "Game" {
		t.Errorf("Types = %v", filter.Types)
	}
	if len(filter.Studios) != 0 {
		t.Errorf("Studios = %v", filter.Studios)
	}
}

func TestFilterQueryRoundTrip(t *testing.T) {
	filter := Filter{Platforms: []string{"p1"}, Statuses: []string{"Invited", "Declined"}}
	parsed := ParseFilterQuery(filter.Query())
	if len(parsed.Platforms) != 1 || parsed.Platforms[0] != "p1" {
		t.Errorf("Platforms = %v", parsed.Platforms)
	}
	if len(parsed.Statuses) != 2 {
		t.Errorf("Statuses = %v", parsed.Statuses)
	}
}

func scenarioAggregation(t *testing.T) *Aggregation {
	t.Helper()
	apps, platforms := testCatalog()
	// app-a: OK_Confirmed on Steam, Invited on itch.
	// app-b: Invited on Steam.
	records := []models.EventAppPlatform{
		participation("eap-1", apps[0], platforms[0], "ap-1", "OK_Confirmed"),
		participation("eap-2", apps[0], platforms[1], "ap-2", "Invited"),
		participation("eap-3", apps[1], platforms[0], "ap-3", "Invited"),
	}
	aggregation, err := Fold(records)
	if err != nil {
		t.Fatalf("Fold failed: %v", err)
	}
	return aggregation
}

func TestApply_NoFacetsIsIdentity(t *testing.T) {
	aggregation := scenarioAggregation(t)
	if got := (Filter{}).Apply(aggregation); got != aggregation {
		t.Error("Expected the identical aggregation back for an empty filter")
	}
}

func TestApply_StudioFacet(t *testing.T) {
	aggregation := scenarioAggregation(t)
	filtered := Filter{Studios: []string{"studio-2"}}.Apply(aggregation)
	if len(filtered.Apps) != 1 || filtered.Apps[0].ID != "app-b" {
		t.Fatalf("Apps = %v", appIDsOf(filtered))
	}
}

func TestApply_JointPlatformStatus(t *testing.T) {
	aggregation := scenarioAggregation(t)

	// app-a is OK_Confirmed on Steam, so platform=Steam together with
	// status=OK_Confirmed keeps it.
	filtered := Filter{
		Platforms: []string{"plat-steam"},
		Statuses:  []string{"OK_Confirmed"},
	}.Apply(aggregation)
	if len(filtered.Apps) != 1 || filtered.Apps[0].ID != "app-a" {
		t.Fatalf("Apps = %v", appIDsOf(filtered))
	}

	// No single release of app-a is OK_Confirmed on itch: the pair must
	// be matched by one release, not independently.
	filtered = Filter{
		Platforms: []string{"plat-itch"},
		Statuses:  []string{"OK_Confirmed"},
	}.Apply(aggregation)
	if len(filtered.Apps) != 0 {
		t.Fatalf("Apps = %v, want none", appIDsOf(filtered))
	}
}

func TestApply_RebuildsPlatformsFromMatches(t *testing.T) {
	aggregation := scenarioAggregation(t)

	filtered := Filter{Statuses: []string{"OK_Confirmed"}}.Apply(aggregation)
	if len(filtered.Apps) != 1 || filtered.Apps[0].ID != "app-a" {
		t.Fatalf("Apps = %v", appIDsOf(filtered))
	}
	// Only Steam carries a matching release; itch must drop out of the
	// platform columns even though app-a keeps its full release list.
	if len(filtered.Platforms) != 1 || filtered.Platforms[0].ID != "plat-steam" {
		t.Errorf("Platforms = %v", filtered.Platforms)
	}
	if len(filtered.Apps[0].Releases) != 2 {
		t.Errorf("Surviving app lost releases: %d", len(filtered.Apps[0].Releases))
	}
}

func TestApply_ValuesWithinFacetAreOR(t *testing.T) {
	aggregation := scenarioAggregation(t)
	filtered := Filter{Statuses: []string{"OK_Confirmed", "Invited"}}.Apply(aggregation)
	if len(filtered.Apps) != 2 {
		t.Fatalf("Apps = %v, want both", appIDsOf(filtered))
	}
}

func TestApply_NoMatches(t *testing.T) {
	aggregation := scenarioAggregation(t)
	filtered := Filter{Statuses: []string{"Declined"}}.Apply(aggregation)
	if filtered.Apps == nil || len(filtered.Apps) != 0 {
		t.Errorf("Apps = %#v, want explicit empty slice", filtered.Apps)
	}
	if filtered.Platforms == nil || len(filtered.Platforms) != 0 {
		t.Errorf("Platforms = %#v, want explicit empty slice", filtered.Platforms)
	}
}

func appIDsOf(aggregation *Aggregation) []string {
	return aggregation.AppIDs()
}
