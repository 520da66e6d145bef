package imageref

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		image    string
		wantName string
		wantTag  string
	}{
		{
			name:     "name without tag defaults to latest",
			image:    "svc",
			wantName: "svc",
			wantTag:  "latest",
		},
		{
			name:     "name with explicit tag",
			image:    "svc:1.0",
			wantName: "svc",
			wantTag:  "1.0",
		},
		{
			name:     "nested repository path",
			image:    "team/svc:v2",
			wantName: "team/svc",
			wantTag:  "v2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := Parse(tt.image)
			assert.NoError(t, err)
			assert.Equal(t, tt.wantName, ref.Name)
			assert.Equal(t, tt.wantTag, ref.Tag)
		})
	}
}

func TestParse_InvalidReferences(t *testing.T) {
	tests := []struct {
		name  string
		image string
	}{
		{name: "more than one separator", image: "svc:1.0:extra"},
		{name: "empty reference", image: ""},
		{name: "empty tag", image: "svc:"},
		{name: "empty name", image: ":1.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.image)

			var invalidErr ErrInvalidImageName
			assert.True(t, errors.As(err, &invalidErr))
			assert.Equal(t, tt.image, invalidErr.Image)
		})
	}
}

func TestReference_String(t *testing.T) {
	ref := Reference{Name: "svc", Tag: "1.0"}
	assert.Equal(t, "svc:1.0", ref.String())

	parsed, err := Parse("svc")
	assert.NoError(t, err)
	assert.Equal(t, "svc:latest", parsed.String())
}
