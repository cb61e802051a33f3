// Package steamsale derives the bulk sale-configuration export for Steam
// from an aggregated event view.
package steamsale

import (
	"regexp"
	"strings"

	"github.com/pixelfest/eventdeck-go/internal/database/models"
	"github.com/pixelfest/eventdeck-go/internal/services/eventapps"
)

// storeLinkPattern matches Steam catalog URLs of the form
// <host>/(app|sub|bundle)/<numeric id>.
var storeLinkPattern = regexp.MustCompile(`/store\.steampowered\.com/(app|sub|bundle)/(\d+)`)

// MissingLink flags a Steam release with no recognizable store link. It
// is advisory data quality output, not an error.
type MissingLink struct {
	AppID         string
	AppName       string
	AppPlatformID string
	PlatformName  string
}

// Export is the generated sale data plus its advisory missing-link list.
type Export struct {
	// Data is the tab-separated sale rows, newline-joined.
	Data string
	// MissingLinks lists Steam releases that produced no rows.
	MissingLinks []MissingLink
}

// Generate scans the apps' Steam releases for store links and builds one
// export row per link. Releases on non-Steam platforms are skipped;
// Steam releases with zero matching links are reported in MissingLinks.
// Generation always succeeds.
func Generate(apps []eventapps.AppData) Export {
	var rows []string
	var missing []MissingLink

	for _, app := range apps {
		for _, release := range app.Releases {
			if release.AppPlatform.Platform == nil || release.AppPlatform.Platform.Type != models.PlatformTypeSteam {
				continue
			}

			hasSteamLink := false
			for _, link := range release.Links {
				match := storeLinkPattern.FindStringSubmatch(link.URL)
				if match == nil {
					continue
				}
				hasSteamLink = true
				rows = append(rows, buildRow(app.Name, release, link, match[1], match[2]))
			}

			if !hasSteamLink {
				missing = append(missing, MissingLink{
					AppID:         app.ID,
					AppName:       app.Name,
					AppPlatformID: release.AppPlatform.ID,
					PlatformName:  release.AppPlatform.Platform.Name,
				})
			}
		}
	}

	return Export{
		Data:         strings.Join(rows, "\n"),
		MissingLinks: missing,
	}
}

// buildRow assembles one tab-separated row:
// <id>\t<kind>[\t"tag;tag"]\t// <app name> - <link title>
// Steam's "app" kind is exported as "game"; sub and bundle pass through.
func buildRow(appName string, release eventapps.Release, link models.AppPlatformLink, kind, steamID string) string {
	exportKind := kind
	if kind == "app" {
		exportKind = "game"
	}

	var tags []string
	if release.ReleaseState != models.ReleaseStateReleased {
		tags = append(tags, "[Custom] Release state: "+release.ReleaseState)
	}
	if release.IsEarlyAccess {
		tags = append(tags, "[Custom] Early Access")
	}
	if release.IsFreeToPlay {
		tags = append(tags, "[Custom] Free to play")
	}

	row := []string{steamID, exportKind}
	if len(tags) > 0 {
		row = append(row, `"`+strings.Join(tags, ";")+`"`)
	}
	row = append(row, "// "+appName+" - "+link.Title)

	return strings.Join(row, "\t")
}
