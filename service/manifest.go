package service

import (
	"sort"
	"strings"

	"github.com/tidwall/gjson"
)

const (
	maxTechStackEntries  = 25
	maxRawManifestLength = 1000
)

// ExtractDependencies lists dependency names declared in a package.json like manifest
func ExtractDependencies(manifest string) []string {
	if !gjson.Valid(manifest) {
		return nil
	}

	seen := make(map[string]bool)
	for _, section := range []string{"dependencies", "devDependencies", "peerDependencies"} {
		gjson.Get(manifest, section).ForEach(func(key, _ gjson.Result) bool {
			if name := strings.TrimSpace(key.String()); name != "" {
				seen[name] = true
			}

			return true
		})
	}

	deps := make([]string, 0, len(seen))
	for name := range seen {
		deps = append(deps, name)
	}

	sort.Strings(deps)

	if len(deps) > maxTechStackEntries {
		deps = deps[:maxTechStackEntries]
	}

	return deps
}

// TechStackDescription is the text given to the LLM: dependency names when the
// manifest can be read, the raw manifest start otherwise.
func TechStackDescription(manifest *string, deps []string) string {
	if manifest == nil {
		return ""
	}

	if len(deps) > 0 {
		return strings.Join(deps, ", ")
	}

	if gjson.Valid(*manifest) {
		return ""
	}

	return truncate(strings.TrimSpace(*manifest), maxRawManifestLength)
}
