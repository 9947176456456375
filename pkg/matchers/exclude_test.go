package matchers_test

import (
	"testing"

	"github.com/arthur-debert/buildenv/pkg/matchers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsStaticallyExcluded(t *testing.T) {
	tests := []struct {
		rel  string
		base string
		want bool
	}{
		{"/propagated-build-inputs", "propagated-build-inputs", true},
		{"/nix-support", "nix-support", true},
		{"/share/info/dir", "dir", true},
		{"/share/mime/globs", "globs", true},
		{"/share/mime/packages", "packages", false},
		{"/share/mime/packages/app.xml", "app.xml", false},
		{"/lib/perl5/perllocal.pod", "perllocal.pod", true},
		{"/var/log", "log", true},
		{"/bin/app", "app", false},
		{"/share/nix-support", "nix-support", false},
		{"/share/info/dirs", "dirs", false},
	}

	for _, tt := range tests {
		t.Run(tt.rel, func(t *testing.T) {
			assert.Equal(t, tt.want, matchers.IsStaticallyExcluded(tt.rel, tt.base))
		})
	}
}

func TestExcludes(t *testing.T) {
	e, err := matchers.NewExcludes([]string{"share/doc/**", "/lib/*.a", " "})
	require.NoError(t, err)
	assert.Equal(t, 2, e.Len())

	assert.True(t, e.Match("/share/doc/app/README"))
	assert.True(t, e.Match("/lib/libfoo.a"))
	assert.False(t, e.Match("/lib/libfoo.so"))
	assert.False(t, e.Match("/share/man/app.1"))
	assert.False(t, e.Match(""))

	var none *matchers.Excludes
	assert.False(t, none.Match("/anything"))
	assert.Equal(t, 0, none.Len())
}

func TestExcludesInvalidPattern(t *testing.T) {
	_, err := matchers.NewExcludes([]string{"share/[doc"})
	assert.Error(t, err)
}
