package lumina

import "fmt"

// ViewState identifies the active top-level screen.
type ViewState string

const (
	ViewGallery ViewState = "GALLERY"
	ViewAtelier ViewState = "ATELIER"
	ViewAbout   ViewState = "ABOUT"
)

// Views lists the navigable screens in navigation order.
var Views = []ViewState{ViewGallery, ViewAtelier, ViewAbout}

// Label returns the navigation label for the view.
func (v ViewState) Label() string {
	switch v {
	case ViewGallery:
		return "Gallery"
	case ViewAtelier:
		return "Atelier (Create)"
	case ViewAbout:
		return "About"
	default:
		return string(v)
	}
}

// String returns the view identifier.
func (v ViewState) String() string { return string(v) }

// ParseViewState validates a view identifier.
func ParseViewState(s string) (ViewState, error) {
	for _, v := range Views {
		if string(v) == s {
			return v, nil
		}
	}
	return "", NewUserInputError(fmt.Sprintf("unknown view %q", s), 400, nil)
}
