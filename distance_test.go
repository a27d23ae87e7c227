package toolfix

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{"identical", "read_file", "read_file", 0},
		{"insertion", "read_fil", "read_file", 1},
		{"deletion", "read_file", "read_fil", 1},
		{"substitution", "bash_exec", "bash_axec", 1},
		{"nothing shared", "aaa", "bbb", 3},
		{"empty left", "", "abc", 3},
		{"empty right", "abc", "", 3},
		{"both empty", "", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Distance(tt.a, tt.b))
		})
	}
}

func TestDistance_Symmetric(t *testing.T) {
	t.Parallel()
	words := []string{"", "a", "read_file", "write_file", "list_directory", "bash_exec", "kitten", "sitting"}
	for _, a := range words {
		assert.Equal(t, 0, Distance(a, a), a)
		for _, b := range words {
			assert.Equal(t, Distance(a, b), Distance(b, a), "%q vs %q", a, b)
		}
	}
}
