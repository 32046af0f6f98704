package image

import (
	"slices"

	"github.com/simp-lee/posadmin/internal/domain"
)

// Selector holds the state of the gallery picker. In single mode at most one
// image is selected; selecting another replaces it.
type Selector struct {
	multi    bool
	gallery  []domain.Image
	selected []string
}

// NewSelector returns a picker over gallery with the codes in preselected
// already chosen. Codes not in the gallery are dropped; in single mode only
// the first surviving code is kept.
func NewSelector(gallery []domain.Image, multi bool, preselected ...string) *Selector {
	s := &Selector{multi: multi, gallery: slices.Clone(gallery)}
	for _, code := range preselected {
		if !s.IsSelected(code) {
			s.Select(code)
		}
		if !multi && len(s.selected) == 1 {
			break
		}
	}
	return s
}

// Multi reports whether more than one image may be selected.
func (s *Selector) Multi() bool { return s.multi }

// Gallery returns the images on offer.
func (s *Selector) Gallery() []domain.Image { return slices.Clone(s.gallery) }

// Select chooses the image with code. It reports false for a code that is
// not in the gallery.
func (s *Selector) Select(code string) bool {
	if s.index(code) < 0 {
		return false
	}
	if !s.multi {
		s.selected = []string{code}
		return true
	}
	if !s.IsSelected(code) {
		s.selected = append(s.selected, code)
	}
	return true
}

// Deselect drops code from the selection.
func (s *Selector) Deselect(code string) {
	s.selected = slices.DeleteFunc(s.selected, func(c string) bool { return c == code })
}

// Toggle flips the selection state of code and reports the new state.
func (s *Selector) Toggle(code string) bool {
	if s.IsSelected(code) {
		s.Deselect(code)
		return false
	}
	return s.Select(code)
}

// Clear empties the selection.
func (s *Selector) Clear() { s.selected = nil }

// IsSelected reports whether code is selected.
func (s *Selector) IsSelected(code string) bool {
	return slices.Contains(s.selected, code)
}

// Selected returns the chosen images in the order they were picked.
func (s *Selector) Selected() []domain.Image {
	out := make([]domain.Image, 0, len(s.selected))
	for _, code := range s.selected {
		out = append(out, s.gallery[s.index(code)])
	}
	return out
}

// First returns the chosen image in single mode, or the earliest pick in
// multi mode.
func (s *Selector) First() (domain.Image, bool) {
	if len(s.selected) == 0 {
		return domain.Image{}, false
	}
	return s.gallery[s.index(s.selected[0])], true
}

// Add puts freshly uploaded images into the gallery and selects them. In
// single mode only the last one stays selected.
func (s *Selector) Add(imgs ...domain.Image) {
	for _, img := range imgs {
		if s.index(img.ImageCode) < 0 {
			s.gallery = append(s.gallery, img)
		}
		s.Select(img.ImageCode)
	}
}

func (s *Selector) index(code string) int {
	return slices.IndexFunc(s.gallery, func(img domain.Image) bool { return img.ImageCode == code })
}
