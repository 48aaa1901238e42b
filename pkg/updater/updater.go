// Package updater checks GitHub for a newer gv release.
package updater

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pixelweaver/gallery_viewer/pkg/version"
)

const releaseURL = "https://api.github.com/repos/pixelweaver/gallery_viewer/releases/latest"

type Release struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// CheckForUpdates queries GitHub for the latest release.
// Returns the new version tag and URL if an update is available, empty
// strings otherwise. Dev builds never report an update.
func CheckForUpdates() (string, string, error) {
	if version.Version == "dev" {
		return "", "", nil
	}

	// Short timeout so a slow network never holds up startup
	client := http.Client{
		Timeout: 2 * time.Second,
	}

	resp, err := client.Get(releaseURL)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("github api returned status: %s", resp.Status)
	}

	var rel Release
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return "", "", err
	}

	if compareVersions(rel.TagName, version.Version) > 0 {
		return rel.TagName, rel.HTMLURL, nil
	}
	return "", "", nil
}

// compareVersions compares two SemVer-ish tags segment by segment. Returns
// 1 if v1 > v2, -1 if v1 < v2, 0 if equal. Non-numeric segments fall back to
// string comparison.
func compareVersions(v1, v2 string) int {
	s1 := strings.Split(strings.TrimPrefix(v1, "v"), ".")
	s2 := strings.Split(strings.TrimPrefix(v2, "v"), ".")

	for i := 0; i < len(s1) || i < len(s2); i++ {
		a, b := "0", "0"
		if i < len(s1) {
			a = s1[i]
		}
		if i < len(s2) {
			b = s2[i]
		}

		na, errA := strconv.Atoi(a)
		nb, errB := strconv.Atoi(b)
		if errA == nil && errB == nil {
			if na != nb {
				if na > nb {
					return 1
				}
				return -1
			}
			continue
		}
		if a != b {
			if a > b {
				return 1
			}
			return -1
		}
	}
	return 0
}
