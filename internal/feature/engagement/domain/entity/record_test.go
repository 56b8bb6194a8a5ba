package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind_Permits(t *testing.T) {
	assert.True(t, KindLike.Permits(TargetPost))
	assert.True(t, KindLike.Permits(TargetComment))
	assert.True(t, KindSave.Permits(TargetPost))
	assert.False(t, KindSave.Permits(TargetComment))
	assert.False(t, Kind("follow").Permits(TargetPost))
}

func TestParseTargetType(t *testing.T) {
	got, ok := ParseTargetType("comment")
	assert.True(t, ok)
	assert.Equal(t, TargetComment, got)

	_, ok = ParseTargetType("user")
	assert.False(t, ok)
}

func TestTarget_Allows(t *testing.T) {
	tests := []struct {
		name   string
		target Target
		kind   Kind
		want   bool
	}{
		{"like allowed post", Target{Type: TargetPost, AllowLikes: true}, KindLike, true},
		{"like disabled post", Target{Type: TargetPost, AllowLikes: false}, KindLike, false},
		{"save ignores likes flag", Target{Type: TargetPost, AllowLikes: false}, KindSave, true},
		{"like comment", Target{Type: TargetComment, AllowLikes: true}, KindLike, true},
		{"save comment", Target{Type: TargetComment, AllowLikes: true}, KindSave, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.target.Allows(tt.kind))
		})
	}
}
