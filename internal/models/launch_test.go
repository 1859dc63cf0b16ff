package models

import (
	"testing"

	"launch-booking/internal/schema"

	"github.com/stretchr/testify/assert"
)

func TestMissionPatch(t *testing.T) {
	m := Mission{MissionPatchSmall: "small.png", MissionPatchLarge: "large.png"}

	assert.Equal(t, "small.png", m.Patch(schema.PatchSizeSmall))
	assert.Equal(t, "large.png", m.Patch(schema.PatchSizeLarge))
	assert.Equal(t, "large.png", m.Patch(""))
}
