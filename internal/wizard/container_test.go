package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/codewithwan/erecruitment/internal/models"
)

func TestContainerStates(t *testing.T) {
	refreshed := 0
	c := NewContainer[models.Organization](func() { refreshed++ })

	assert.Equal(t, KindList, c.State().Kind())
	assert.Nil(t, c.State().Entity())

	c.Add()
	assert.Equal(t, KindEdit, c.State().Kind())
	assert.True(t, c.State().Creating())

	c.Edit(models.Organization{ID: 4, OrganizationName: "HIMA"})
	assert.False(t, c.State().Creating())
	if assert.NotNil(t, c.State().Entity()) {
		assert.Equal(t, int64(4), c.State().Entity().ID)
	}

	c.OnBack()
	assert.Equal(t, KindList, c.State().Kind())
	assert.Nil(t, c.State().Entity())
	assert.Equal(t, 1, refreshed)

	c.Add()
	c.OnSaved()
	assert.Equal(t, KindList, c.State().Kind())
	assert.Equal(t, 2, refreshed)
}

func TestDecodeItems(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{"array", `[{"id":1},{"id":2}]`, 2},
		{"single object", `{"id":3}`, 1},
		{"empty object", `{}`, 0},
		{"null", `null`, 0},
		{"empty body", ``, 0},
		{"empty array", `[]`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := decodeItems[models.SocialMedia]([]byte(tt.raw))
			assert.NoError(t, err)
			assert.NotNil(t, items)
			assert.Len(t, items, tt.want)
		})
	}

	_, err := decodeItems[models.SocialMedia]([]byte(`"nope"`))
	assert.Error(t, err)
}
