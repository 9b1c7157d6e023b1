package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testRewards(removeOld bool) *RoleRewards {
	return &RoleRewards{
		GuildID:   "825580521616172114",
		RemoveOld: removeOld,
		RewardRoles: []RewardRole{
			{RoleID: "role25", Level: 25},
			{RoleID: "role5", Level: 5},
			{RoleID: "role10", Level: 10},
		},
	}
}

func TestRolesForLevel(t *testing.T) {
	{
		r := testRewards(false)
		assert.Nil(t, r.RolesForLevel(4))
		assert.Equal(t, []string{"role5"}, r.RolesForLevel(5))
		assert.Equal(t, []string{"role5", "role10"}, r.RolesForLevel(12))
		assert.Equal(t, []string{"role5", "role10", "role25"}, r.RolesForLevel(100))
	}

	{
		// with RemoveOld only the highest reached reward remains
		r := testRewards(true)
		assert.Equal(t, []string{"role5"}, r.RolesForLevel(5))
		assert.Equal(t, []string{"role10"}, r.RolesForLevel(12))
		assert.Equal(t, []string{"role25"}, r.RolesForLevel(100))
	}
}

func TestObsoleteRoles(t *testing.T) {
	{
		r := testRewards(false)
		assert.Nil(t, r.ObsoleteRoles(100))
	}

	{
		r := testRewards(true)
		assert.ElementsMatch(t, []string{"role5", "role10"}, r.ObsoleteRoles(100))
		assert.ElementsMatch(t, []string{"role5", "role25"}, r.ObsoleteRoles(12))
	}
}

func TestMarshalRewards(t *testing.T) {
	r := *testRewards(true)

	data, err := MarshalRewards(r)
	assert.Nil(t, err)
	assert.NotEmpty(t, data)

	back, err := UnmarshalRewards(data)
	assert.Nil(t, err)
	assert.Equal(t, r, back)

	_, err = UnmarshalRewards("not base64 at all!!")
	assert.NotNil(t, err)
}
