package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations_AreOrderedAndComplete(t *testing.T) {
	migs := Migrations()
	require.NotEmpty(t, migs)

	for i, m := range migs {
		assert.Equal(t, i+1, m.Version, "versions are contiguous from 1")
		assert.NotEmpty(t, m.Name)
		assert.NotEmpty(t, m.UpSQL, "migration %d has up SQL", m.Version)
		assert.NotEmpty(t, m.DownSQL, "migration %d has down SQL", m.Version)
	}
}

func TestNonNil(t *testing.T) {
	assert.Equal(t, []string{}, nonNil(nil))
	assert.Equal(t, []string{"a"}, nonNil([]string{"a"}))
}
