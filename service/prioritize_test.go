package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrioritizeFiles(t *testing.T) {
	tests := []struct {
		name     string
		files    []string
		maxFiles int
		expected []string
	}{
		{
			name: "Manifests first then sources in tree order",
			files: []string{
				"README.md",
				"main.go",
				"internal/server/server.go",
				"go.mod",
				"docs/index.md",
				"scripts/deploy.py",
				"web/app.js",
				"src/ui/App.TSX",
			},
			expected: []string{"go.mod", "main.go", "internal/server/server.go", "src/ui/App.TSX"},
		},
		{
			name: "Vendored and minified files are skipped",
			files: []string{
				"vendor/github.com/pkg/errors/errors.go",
				"node_modules/react/package.json",
				"src/bundle.min.js",
				"lib/util.rb",
			},
			expected: []string{"lib/util.rb"},
		},
		{
			name:     "Nested manifests are kept",
			files:    []string{"services/api/package.json", "Dockerfile"},
			expected: []string{"services/api/package.json", "Dockerfile"},
		},
		{
			name:     "Nothing relevant",
			files:    []string{"LICENSE", ".github/workflows/ci.yml"},
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PrioritizeFiles(tt.files, tt.maxFiles))
		})
	}
}

func TestPrioritizeFilesCap(t *testing.T) {
	files := []string{"package.json"}
	for i := 0; i < 40; i++ {
		files = append(files, fmt.Sprintf("src/file%02d.ts", i))
	}

	prioritized := PrioritizeFiles(files, 30)

	assert.Len(t, prioritized, 30)
	assert.Equal(t, "package.json", prioritized[0])
	assert.Equal(t, "src/file28.ts", prioritized[29])
}
