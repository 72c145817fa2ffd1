package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategory_ParseRoundTrip(t *testing.T) {
	for _, c := range Categories {
		got, err := ParseCategory(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
		assert.NotEqual(t, "", c.Color())
	}

	got, err := ParseCategory(" science ")
	require.NoError(t, err)
	assert.Equal(t, CategoryScience, got)

	_, err = ParseCategory("Cooking")
	assert.Error(t, err)
}

func TestCategory_Invalid(t *testing.T) {
	var zero Category
	assert.False(t, zero.Valid())
	assert.False(t, Category(99).Valid())
	assert.Equal(t, "gray", Category(99).Color())
}

func TestCategory_JSON(t *testing.T) {
	data, err := json.Marshal(struct {
		C Category `json:"c"`
	}{CategoryDesign})
	require.NoError(t, err)
	assert.JSONEq(t, `{"c":"Design"}`, string(data))

	var out struct {
		C Category `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"c":"business"}`), &out))
	assert.Equal(t, CategoryBusiness, out.C)

	require.NoError(t, json.Unmarshal([]byte(`{"c":""}`), &out))
	assert.Equal(t, Category(0), out.C)

	assert.Error(t, json.Unmarshal([]byte(`{"c":"nope"}`), &out))
}

func TestNote_HasTagAndClone(t *testing.T) {
	n := Note{Tags: []string{"go", "Go"}, Links: []Link{{Kind: LinkTwitter, URL: "u"}}}
	assert.True(t, n.HasTag("go"))
	assert.False(t, n.HasTag("GO"))

	c := n.Clone()
	c.Tags[0] = "changed"
	c.Links[0].URL = "changed"
	assert.Equal(t, "go", n.Tags[0])
	assert.Equal(t, "u", n.Links[0].URL)
}
