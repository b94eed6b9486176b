package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/roosthq/roost/internal/models"
)

var (
	_ list.Item = farmItem{}
	_ list.Item = facilityItem{}
	_ list.Item = chickenItem{}
)

// farmItem wraps [models.Farm] to implement [list.Item].
type farmItem struct {
	farm models.Farm
}

func (i farmItem) FilterValue() string { return i.farm.Name }
func (i farmItem) Title() string       { return i.farm.Name }
func (i farmItem) Description() string {
	desc := i.farm.Location
	if !i.farm.Active {
		desc = fmt.Sprintf("%s • inactive", desc)
	}
	return desc
}

// facilityItem wraps [models.Facility] to implement [list.Item].
type facilityItem struct {
	facility models.Facility
}

func (i facilityItem) FilterValue() string { return i.facility.Name }
func (i facilityItem) Title() string       { return i.facility.Name }
func (i facilityItem) Description() string {
	return fmt.Sprintf("%s • capacity %d • %s", i.facility.Kind, i.facility.Capacity, i.facility.Status)
}

// chickenItem wraps [models.Chicken] to implement [list.Item].
type chickenItem struct {
	chicken models.Chicken
}

func (i chickenItem) FilterValue() string { return i.chicken.Tag }
func (i chickenItem) Title() string       { return i.chicken.Tag }
func (i chickenItem) Description() string {
	desc := i.chicken.Breed
	if desc == "" {
		desc = i.chicken.Sex
	}
	if !i.chicken.Healthy {
		desc = fmt.Sprintf("%s • needs attention", desc)
	}
	return desc
}
