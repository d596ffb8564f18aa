package fakeapi

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSeed = `
users:
  - name: fer
    password: "9920"
lists:
  - name: Groceries
    created: "2024-05-01"
    user: 1
articles:
  - name: Milk
    content: 2 litres
    lists: [1]
  - name: Loose note
`

func TestLoadSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleSeed), 0o600))

	seed, err := LoadSeed(path)
	require.NoError(t, err)

	s := NewStore()
	require.NoError(t, seed.Apply(s))

	u, err := s.User(1)
	require.NoError(t, err)
	assert.Equal(t, "fer", u.Name)
	assert.Equal(t, "9920", u.Password)

	articles := s.Articles()
	require.Len(t, articles, 2)
	assert.Equal(t, []int64{1}, articles[0].ListIDs)
	assert.Empty(t, articles[1].ListIDs)
}

func TestLoadSeed_MissingFile(t *testing.T) {
	_, err := LoadSeed(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read seed file")
}

func TestParseSeed_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{name: "malformed", yaml: "users: [", want: "failed to parse seed"},
		{name: "unnamed user", yaml: "users:\n  - password: x\n", want: "users[0]: name is required"},
		{name: "unknown owner", yaml: "lists:\n  - name: a\n    user: 3\n", want: "lists[0]: user 3 does not exist"},
		{name: "unknown list", yaml: "articles:\n  - name: a\n    lists: [2]\n", want: "articles[0]: list 2 does not exist"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSeed([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
