package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDependency(t *testing.T) {
	output := `{
  '@bentley/bentleyjs-core': '2.19.20',
  '@bentley/imodeljs-native': '2.19.20',
  'semver': '^7.3.5'
}
`

	tests := []struct {
		name  string
		dep   string
		want  string
		found bool
	}{
		{name: "scoped dependency", dep: "@bentley/imodeljs-native", want: "2.19.20", found: true},
		{name: "plain name is not a dotted pin", dep: "semver", found: false},
		{name: "absent dependency", dep: "@bentley/unknown", found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseDependency(output, tt.dep)
			assert.Equal(t, tt.found, ok)
			if tt.found {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParseDependencySingleLine(t *testing.T) {
	// npm collapses short objects onto one line.
	output := `{ '@bentley/imodeljs-native': '3.0.1' }`

	got, ok := parseDependency(output, "@bentley/imodeljs-native")
	assert.True(t, ok)
	assert.Equal(t, "3.0.1", got)
}
