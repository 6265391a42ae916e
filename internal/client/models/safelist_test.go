package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatches_Bidirectional(t *testing.T) {
	tests := []struct {
		entry, item string
		want        bool
	}{
		{"egg", "egg (allergen)", true},
		{"soy sauce", "soy", true},
		{"soy", "soy", true},
		{"garlic", "onion", false},
		{"", "onion", false},
		{"onion", "", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Matches(tt.entry, tt.item), "%q vs %q", tt.entry, tt.item)
	}
}

func TestSafeList_Filter(t *testing.T) {
	l := SafeList{"egg", "soy sauce"}

	got := l.Filter([]string{"egg (allergen)", "soy", "garlic", "wheat"})
	assert.Equal(t, []string{"garlic", "wheat"}, got)
	assert.Empty(t, SafeList(nil).Filter(nil))
}

func TestSafeList_With(t *testing.T) {
	l := SafeList{"egg"}

	l2, added := l.With("  milk ")
	assert.True(t, added)
	assert.Equal(t, SafeList{"egg", "milk"}, l2)
	assert.Equal(t, SafeList{"egg"}, l)

	_, added = l2.With("milk")
	assert.False(t, added)
	_, added = l2.With("   ")
	assert.False(t, added)
}

func TestSafeList_Without(t *testing.T) {
	l, removed := SafeList{"egg", "milk", "egg"}.Without("egg")
	assert.True(t, removed)
	assert.Equal(t, SafeList{"milk"}, l)

	_, removed = l.Without("soy")
	assert.False(t, removed)
}

func TestUnion(t *testing.T) {
	got := Union(SafeList{"a", "b"}, SafeList{"b", "c"})
	assert.Equal(t, SafeList{"a", "b", "c"}, got)

	assert.Equal(t, SafeList{"x"}, Union(nil, SafeList{"x"}))
	assert.Empty(t, Union(nil, nil))
}
