package mode

import "strings"

// Mode is the entity collection a filter applies to.
type Mode string

// Filter mode constants.
const (
	Scenes     Mode = "SCENES"
	Performers Mode = "PERFORMERS"
	Studios    Mode = "STUDIOS"
	Tags       Mode = "TAGS"
	Groups     Mode = "GROUPS"
	Galleries  Mode = "GALLERIES"
	Images     Mode = "IMAGES"
)

// All lists every supported mode in display order.
func All() []Mode {
	return []Mode{Scenes, Performers, Studios, Tags, Groups, Galleries, Images}
}

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	switch m {
	case Scenes, Performers, Studios, Tags, Groups, Galleries, Images:
		return true
	}
	return false
}

// Parse accepts upper or lower case mode names ("scenes", "SCENES").
func Parse(s string) (Mode, bool) {
	m := Mode(strings.ToUpper(strings.TrimSpace(s)))
	return m, m.IsValid()
}
