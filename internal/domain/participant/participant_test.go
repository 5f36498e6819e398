package participant

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	p, err := New("  Alice ", " +55 11 99999-0000 ")
	require.NoError(t, err)

	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "Alice", p.Name)
	assert.Equal(t, "+55 11 99999-0000", p.Phone)
	assert.NotNil(t, p.Blacklist)
	assert.Equal(t, 0, p.Blacklist.Len())

	other, err := New("Bob", "")
	require.NoError(t, err)
	assert.NotEqual(t, p.ID, other.ID, "ids must never be reused")
}

func TestNewRejectsBlankName(t *testing.T) {
	_, err := New("   ", "")
	assert.ErrorIs(t, err, ErrNameRequired)
}

func TestCanGiveTo(t *testing.T) {
	p := Participant{ID: "a", Name: "A", Blacklist: NewExclusionSet("c")}

	assert.True(t, p.CanGiveTo("b"))
	assert.False(t, p.CanGiveTo("a"), "nobody draws themselves")
	assert.False(t, p.CanGiveTo("c"))
}

func TestZeroValueBlacklistIsEmpty(t *testing.T) {
	p := Participant{ID: "a", Name: "A"}

	assert.False(t, p.Excludes("b"))
	assert.True(t, p.CanGiveTo("b"))
	assert.Empty(t, p.Blacklist.IDs())
}

func TestSameName(t *testing.T) {
	p := Participant{Name: "Maria"}

	assert.True(t, p.SameName("maria"))
	assert.True(t, p.SameName(" MARIA "))
	assert.False(t, p.SameName("Mariana"))
}

func TestCloneDoesNotShareBlacklist(t *testing.T) {
	p := Participant{ID: "a", Blacklist: NewExclusionSet("b")}
	c := p.Clone()
	c.Blacklist.Add("c")

	assert.False(t, p.Excludes("c"))
	assert.True(t, c.Excludes("c"))
}

func TestExclusionSetJSON(t *testing.T) {
	t.Run("marshals sorted array", func(t *testing.T) {
		data, err := json.Marshal(NewExclusionSet("c", "a", "b"))
		require.NoError(t, err)
		assert.JSONEq(t, `["a","b","c"]`, string(data))
	})

	t.Run("empty set marshals as empty array", func(t *testing.T) {
		data, err := json.Marshal(Participant{ID: "a", Name: "A"})
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":"a","name":"A","blacklist":[]}`, string(data))
	})

	t.Run("missing and null blacklist decode to empty set", func(t *testing.T) {
		var p Participant
		require.NoError(t, json.Unmarshal([]byte(`{"id":"a","name":"A"}`), &p))
		assert.Equal(t, 0, p.Blacklist.Len())

		require.NoError(t, json.Unmarshal([]byte(`{"id":"a","name":"A","blacklist":null}`), &p))
		assert.NotNil(t, p.Blacklist)
		assert.Equal(t, 0, p.Blacklist.Len())
	})

	t.Run("array decodes into set", func(t *testing.T) {
		var p Participant
		require.NoError(t, json.Unmarshal([]byte(`{"id":"a","name":"A","blacklist":["b","b","c"]}`), &p))
		assert.Equal(t, []string{"b", "c"}, p.Blacklist.IDs())
	})
}
