package suggest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nexuslab/capture/internal/suggest"
)

func TestMergeTags(t *testing.T) {
	testCases := []struct {
		name      string
		current   []string
		primary   string
		secondary string
		want      []string
	}{
		{
			name:      "appends new tags after existing",
			current:   []string{"Design"},
			primary:   "Architecture",
			secondary: "Kyoto",
			want:      []string{"Design", "Architecture", "Kyoto"},
		},
		{
			name:      "deduplicates against existing",
			current:   []string{"Design"},
			primary:   "Design",
			secondary: "Kyoto",
			want:      []string{"Design", "Kyoto"},
		},
		{
			name:      "empty suggestions leave set unchanged",
			current:   []string{"Design", "Life"},
			primary:   "",
			secondary: "",
			want:      []string{"Design", "Life"},
		},
		{
			name:      "empty current set",
			current:   nil,
			primary:   "Product",
			secondary: "Business",
			want:      []string{"Product", "Business"},
		},
		{
			name:      "identical primary and secondary collapse",
			current:   nil,
			primary:   "Design",
			secondary: "Design",
			want:      []string{"Design"},
		},
		{
			name:      "secondary only",
			current:   []string{"Life"},
			primary:   "",
			secondary: "Travel",
			want:      []string{"Life", "Travel"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := suggest.MergeTags(tc.current, tc.primary, tc.secondary)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestMergeTags_Idempotent(t *testing.T) {
	once := suggest.MergeTags([]string{"Design"}, "Design", "Kyoto")
	assert.Equal(t, []string{"Design", "Kyoto"}, once)

	twice := suggest.MergeTags(once, "Design", "Kyoto")
	assert.Equal(t, once, twice)
}

func TestMergeTags_PreservesExistingOrder(t *testing.T) {
	got := suggest.MergeTags([]string{"Zed", "Alpha", "Mid"}, "New", "")
	assert.Equal(t, []string{"Zed", "Alpha", "Mid", "New"}, got)
}
