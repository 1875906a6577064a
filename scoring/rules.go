package scoring

import (
	"path"
	"slices"
	"strings"
)

// Rules holds the pattern tables used by the scorer.
// Names are compared case-insensitively unless stated otherwise.
type Rules struct {
	// DependencyManifests are exact base names, case-sensitive
	DependencyManifests []string

	// TestDirectories match any directory segment, TestFileMarkers match inside base names
	TestDirectories  []string
	TestFileMarkers  []string
	TestFilePrefixes []string

	// CIPathPrefixes match the start of a path, CIFiles match a full path
	CIPathPrefixes []string
	CIFiles        []string

	// ConfigExampleMarkers match inside base names
	ConfigExampleMarkers []string

	LicenseFiles   []string
	CommunityFiles []string
}

// DefaultRules returns the pattern tables used by the API
func DefaultRules() Rules {
	return Rules{
		DependencyManifests: []string{
			"package.json",
			"requirements.txt",
			"pyproject.toml",
			"setup.py",
			"Pipfile",
			"go.mod",
			"Cargo.toml",
			"pom.xml",
			"build.gradle",
			"build.gradle.kts",
			"Gemfile",
			"composer.json",
			"mix.exs",
			"pubspec.yaml",
		},
		TestDirectories:  []string{"test", "tests", "__tests__", "spec", "specs"},
		TestFileMarkers:  []string{".test.", ".spec.", "_test."},
		TestFilePrefixes: []string{"test_"},
		CIPathPrefixes: []string{
			".github/workflows/",
			".circleci/",
		},
		CIFiles: []string{
			".gitlab-ci.yml",
			".travis.yml",
			"jenkinsfile",
			"azure-pipelines.yml",
			"bitbucket-pipelines.yml",
			".drone.yml",
		},
		ConfigExampleMarkers: []string{".env.example", ".env.sample", ".env.template", ".example", ".sample"},
		LicenseFiles:         []string{"license", "license.md", "license.txt"},
		CommunityFiles: []string{
			"contributing",
			"contributing.md",
			"contributing.txt",
			"changelog",
			"changelog.md",
			"changelog.txt",
		},
	}
}

func (r Rules) isDependencyManifest(file string) bool {
	return slices.Contains(r.DependencyManifests, path.Base(file))
}

func (r Rules) isTestFile(file string) bool {
	lower := strings.ToLower(file)
	segments := strings.Split(lower, "/")
	base := segments[len(segments)-1]

	for _, dir := range segments[:len(segments)-1] {
		if slices.Contains(r.TestDirectories, dir) {
			return true
		}
	}

	for _, marker := range r.TestFileMarkers {
		if strings.Contains(base, marker) {
			return true
		}
	}

	for _, prefix := range r.TestFilePrefixes {
		if strings.HasPrefix(base, prefix) {
			return true
		}
	}

	return false
}

func (r Rules) isCIConfig(file string) bool {
	lower := strings.ToLower(file)

	for _, prefix := range r.CIPathPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}

	return slices.Contains(r.CIFiles, lower)
}

func (r Rules) isConfigExample(file string) bool {
	base := strings.ToLower(path.Base(file))

	for _, marker := range r.ConfigExampleMarkers {
		if strings.Contains(base, marker) {
			return true
		}
	}

	return false
}

func (r Rules) isLicense(file string) bool {
	return slices.Contains(r.LicenseFiles, strings.ToLower(path.Base(file)))
}

func (r Rules) isCommunityFile(file string) bool {
	return slices.Contains(r.CommunityFiles, strings.ToLower(path.Base(file)))
}
