package operator

import (
	"testing"

	// Packages
	unistore "github.com/mutablelogic/go-unistore"
	assert "github.com/stretchr/testify/assert"
)

func Test_Path_Normalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"/", ""},
		{".", ""},
		{"a.txt", "a.txt"},
		{"/a.txt", "a.txt"},
		{"//a.txt", "a.txt"},
		{"///dir/", "dir/"},
		{"a/b.txt", "a/b.txt"},
		{"a//b.txt", "a/b.txt"},
		{"a/./b.txt", "a/b.txt"},
		{"a/b/../c.txt", "a/c.txt"},
		{"dir/", "dir/"},
		{"/dir/", "dir/"},
		{"a/b/c/", "a/b/c/"},
	}
	for _, test := range tests {
		t.Run(test.in, func(t *testing.T) {
			assert := assert.New(t)
			got, err := normalizePath(test.in)
			assert.NoError(err)
			assert.Equal(test.want, got)
		})
	}
}

func Test_Path_Escape(t *testing.T) {
	assert := assert.New(t)

	for _, in := range []string{"..", "../a.txt", "a/../../b.txt", "/.."} {
		_, err := normalizePath(in)
		assert.Error(err, in)
		assert.True(unistore.IsKind(err, unistore.KindInvalidInput), in)
	}
}

func Test_Path_NormalizeDir(t *testing.T) {
	assert := assert.New(t)

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"/", ""},
		{"dir", "dir/"},
		{"dir/", "dir/"},
		{"a/b", "a/b/"},
	}
	for _, test := range tests {
		got, err := normalizeDir(test.in)
		assert.NoError(err, test.in)
		assert.Equal(test.want, got, test.in)
	}
}
