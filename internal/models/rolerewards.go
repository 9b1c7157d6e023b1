package models

import (
	"bytes"
	"encoding/base64"
	"encoding/gob"
	"sort"
)

// RoleRewards holds the reward roles of a guild which are handed out
// when a member reaches the configured level.
type RoleRewards struct {
	GuildID     string
	RewardRoles []RewardRole
	RemoveOld   bool
}

type RewardRole struct {
	RoleID string
	Level  int
}

// RolesForLevel returns the role IDs a member of the given level is
// entitled to. With RemoveOld set, only the highest reached reward
// is returned.
func (r *RoleRewards) RolesForLevel(level int) []string {
	reached := make([]RewardRole, 0, len(r.RewardRoles))
	for _, rr := range r.RewardRoles {
		if rr.Level <= level {
			reached = append(reached, rr)
		}
	}

	if len(reached) == 0 {
		return nil
	}

	sort.Slice(reached, func(i, j int) bool {
		return reached[i].Level < reached[j].Level
	})

	if r.RemoveOld {
		return []string{reached[len(reached)-1].RoleID}
	}

	ids := make([]string, 0, len(reached))
	for _, rr := range reached {
		ids = append(ids, rr.RoleID)
	}

	return ids
}

// ObsoleteRoles returns the reward role IDs a member of the given
// level should no longer carry. Only meaningful with RemoveOld set.
func (r *RoleRewards) ObsoleteRoles(level int) []string {
	if !r.RemoveOld {
		return nil
	}

	keep := r.RolesForLevel(level)
	keepSet := map[string]bool{}
	for _, id := range keep {
		keepSet[id] = true
	}

	var obsolete []string
	for _, rr := range r.RewardRoles {
		if !keepSet[rr.RoleID] {
			obsolete = append(obsolete, rr.RoleID)
		}
	}

	return obsolete
}

// UnmarshalRewards decodes role rewards from a string
func UnmarshalRewards(data string) (r RoleRewards, err error) {
	rawData, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return
	}

	buffer := bytes.NewBuffer(rawData)
	gobdec := gob.NewDecoder(buffer)

	err = gobdec.Decode(&r)
	if err != nil {
		return
	}

	return
}

// MarshalRewards encodes role rewards to a string
func MarshalRewards(r RoleRewards) (data string, err error) {
	var buffer bytes.Buffer
	gobenc := gob.NewEncoder(&buffer)

	err = gobenc.Encode(r)
	if err != nil {
		return
	}

	data = base64.StdEncoding.EncodeToString(buffer.Bytes())

	return
}
