package models

import "launch-booking/internal/schema"

type Launch struct {
	ID      string  `json:"id"`
	Site    string  `json:"site"`
	Mission Mission `json:"mission"`
	Rocket  Rocket  `json:"rocket"`
}

type Mission struct {
	Name              string `json:"name"`
	MissionPatchSmall string `json:"mission_patch_small"`
	MissionPatchLarge string `json:"mission_patch_large"`
}

// Patch returns the patch URL for a PatchSize value. Anything but SMALL yields the large patch.
func (m Mission) Patch(size string) string {
	if size == schema.PatchSizeSmall {
		return m.MissionPatchSmall
	}
	return m.MissionPatchLarge
}

type Rocket struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}
