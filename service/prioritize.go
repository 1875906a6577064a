package service

import (
	"path"
	"slices"
	"strings"
)

var (
	contextManifestFiles = []string{
		"package.json",
		"go.mod",
		"requirements.txt",
		"pyproject.toml",
		"Cargo.toml",
		"pom.xml",
		"build.gradle",
		"Gemfile",
		"composer.json",
		"Dockerfile",
		"docker-compose.yml",
	}

	contextSourceDirectories = []string{"src", "lib", "app", "cmd", "internal", "pkg", "server", "api", "core"}

	contextSourceExtensions = []string{
		".go", ".py", ".js", ".jsx", ".ts", ".tsx", ".rs", ".java", ".kt",
		".rb", ".php", ".cs", ".c", ".cc", ".cpp", ".h", ".swift", ".scala",
	}

	contextExcludedDirectories = []string{"node_modules", "vendor", "dist", "build", "third_party", ".git"}
)

// PrioritizeFiles selects the files worth sending to the LLM: manifests first,
// then source files at the root or under a well-known source directory.
func PrioritizeFiles(files []string, maxFiles int) []string {
	manifests := make([]string, 0)
	sources := make([]string, 0)

	for _, f := range files {
		segments := strings.Split(f, "/")
		dirs := segments[:len(segments)-1]

		if slices.ContainsFunc(dirs, func(d string) bool { return slices.Contains(contextExcludedDirectories, d) }) {
			continue
		}

		base := segments[len(segments)-1]

		if slices.Contains(contextManifestFiles, base) {
			manifests = append(manifests, f)
			continue
		}

		if strings.HasSuffix(base, ".min.js") || !slices.Contains(contextSourceExtensions, strings.ToLower(path.Ext(base))) {
			continue
		}

		if len(dirs) == 0 || slices.Contains(contextSourceDirectories, dirs[0]) {
			sources = append(sources, f)
		}
	}

	prioritized := append(manifests, sources...)

	if maxFiles > 0 && len(prioritized) > maxFiles {
		prioritized = prioritized[:maxFiles]
	}

	return prioritized
}
