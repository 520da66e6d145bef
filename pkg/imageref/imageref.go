package imageref

import "strings"

// DefaultTag is applied when an image reference carries no explicit tag.
const DefaultTag = "latest"

// Reference is a parsed container image reference of the form "name" or "name:tag".
type Reference struct {
	Name string
	Tag  string
}

// String returns the canonical "name:tag" form of the reference.
func (r Reference) String() string {
	return r.Name + ":" + r.Tag
}

// Parse splits an image reference into name and tag. A missing tag defaults
// to "latest". References with more than one ':' separator are rejected.
func Parse(image string) (Reference, error) {
	if image == "" {
		return Reference{}, ErrInvalidImageName{Image: image}
	}

	parts := strings.Split(image, ":")
	switch len(parts) {
	case 1:
		return Reference{Name: parts[0], Tag: DefaultTag}, nil
	case 2:
		if parts[0] == "" || parts[1] == "" {
			return Reference{}, ErrInvalidImageName{Image: image}
		}
		return Reference{Name: parts[0], Tag: parts[1]}, nil
	default:
		return Reference{}, ErrInvalidImageName{Image: image}
	}
}

// ErrInvalidImageName is returned when an image reference cannot be parsed
type ErrInvalidImageName struct {
	Image string
}

func (e ErrInvalidImageName) Error() string {
	return "invalid image name: '" + e.Image + "'"
}
