package names_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/name-service/names"
)

func TestAll_defaultPoolIsNonEmptyAndClean(t *testing.T) {
	all := names.All()

	require.NotEmpty(t, all)
	for _, n := range all {
		assert.NotEmpty(t, n)
		assert.NotContains(t, n, "#", "comment lines must be skipped")
	}
}

// TestAll_returnsCopy verifies that mutating the returned slice does not
// affect later calls.
func TestAll_returnsCopy(t *testing.T) {
	first := names.All()
	want := first[0]
	first[0] = "mutated"

	require.Equal(t, want, names.All()[0])
}

func TestParse(t *testing.T) {
	got := names.Parse("# header\nNora\n\n  Nia  \n#Oscar\nOscar\n")

	require.Equal(t, []string{"Nora", "Nia", "Oscar"}, got)
}
