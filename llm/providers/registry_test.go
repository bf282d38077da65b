package providers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	providertest "github.com/brain-battle/notes-server/llm/providers/test"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	assert.Empty(t, r.List())

	fp := providertest.NewFakeProvider()
	r.Register(fp.Name(), fp)

	got, err := r.Get("fake")
	require.NoError(t, err)
	assert.Same(t, fp, got)
	assert.Equal(t, []string{"fake"}, r.List())

	_, err = r.Get("missing")
	assert.EqualError(t, err, "provider not found: missing")
}
