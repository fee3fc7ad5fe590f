package registry

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peoplekit/peoplekit/internal/workflows/domain"
)

const travelYAML = `id: travel
name: Travel & Visas
description: Business travel and visa requests
triggers:
  - pattern: visa|work\s+permit
    weight: 10
  - pattern: business\s+travel
    weight: 8
keywords: [visa, travel]
steps:
  - id: gather_details
    name: Gather Details
    required_data: [destination]
    next: [book_travel]
  - id: book_travel
    name: Book Travel
    next: [close_workflow]
  - id: close_workflow
    name: Close Workflow
`

func TestLoadWithUserDefinitions(t *testing.T) {
	t.Run("empty directory yields the builtin table", func(t *testing.T) {
		reg, err := LoadWithUserDefinitions(fstest.MapFS{})
		require.NoError(t, err)

		builtin, err := NewBuiltin()
		require.NoError(t, err)
		assert.Equal(t, builtin.Priority(), reg.Priority())
	})

	t.Run("new workflow ranks after builtins and before general", func(t *testing.T) {
		reg, err := LoadWithUserDefinitions(fstest.MapFS{
			"travel.yaml": &fstest.MapFile{Data: []byte(travelYAML)},
		})
		require.NoError(t, err)

		order := reg.Priority()
		require.Len(t, order, 10)
		assert.Equal(t, domain.WorkflowID("travel"), order[len(order)-2])
		assert.Equal(t, domain.WorkflowGeneral, order[len(order)-1])

		def, ok := reg.Get("travel")
		require.True(t, ok)
		assert.Len(t, def.Triggers, 2)
		assert.Equal(t, []string{"destination"}, def.Steps[0].RequiredData)
	})

	t.Run("user definition replaces a builtin with the same id", func(t *testing.T) {
		hiringYAML := `id: hiring
name: Hiring (custom)
description: Custom hiring rules
triggers:
  - pattern: headhunt
    weight: 10
steps:
  - id: only_step
    name: Only Step
`
		reg, err := LoadWithUserDefinitions(fstest.MapFS{
			"hiring.yaml": &fstest.MapFile{Data: []byte(hiringYAML)},
		})
		require.NoError(t, err)

		// Priority position is unchanged, content is replaced.
		assert.Equal(t, domain.WorkflowHiring, reg.Priority()[0])
		def, ok := reg.Get(domain.WorkflowHiring)
		require.True(t, ok)
		assert.Equal(t, "Hiring (custom)", def.Name)
		assert.Len(t, def.Steps, 1)
	})

	t.Run("redefining the general fallback is rejected", func(t *testing.T) {
		_, err := LoadWithUserDefinitions(fstest.MapFS{
			"general.yaml": &fstest.MapFile{Data: []byte("id: general\nname: Hijacked\n")},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "general")
	})

	t.Run("invalid user definition fails validation", func(t *testing.T) {
		bad := `id: broken
name: Broken
triggers:
  - pattern: '([unclosed'
    weight: 5
steps:
  - id: only
    name: Only
`
		_, err := LoadWithUserDefinitions(fstest.MapFS{
			"broken.yaml": &fstest.MapFile{Data: []byte(bad)},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "broken")
	})

	t.Run("definition without an id is rejected", func(t *testing.T) {
		_, err := LoadWithUserDefinitions(fstest.MapFS{
			"anon.yaml": &fstest.MapFile{Data: []byte("name: Anonymous\n")},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "id is required")
	})

	t.Run("non-yaml files are ignored", func(t *testing.T) {
		reg, err := LoadWithUserDefinitions(fstest.MapFS{
			"README.md": &fstest.MapFile{Data: []byte("# notes")},
		})
		require.NoError(t, err)
		assert.Len(t, reg.Priority(), 9)
	})
}
