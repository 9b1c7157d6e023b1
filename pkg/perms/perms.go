// Package perms implements the rule array permission model. A rule is
// a domain name like "as.guild.admin.xp" prefixed with '+' (allow) or
// '-' (deny); '*' matches any remaining segments.
package perms

import "strings"

type PermsArray []string

// Has reports whether the rule array allows the given domain name.
// The most specific matching rule wins; on equal specificity, deny
// wins over allow.
func (p PermsArray) Has(dn string) bool {
	match := -1
	allow := false

	for _, rule := range p {
		if len(rule) < 2 {
			continue
		}

		prefix := rule[0]
		spec, ok := matchDN(rule[1:], dn)
		if !ok || spec < match {
			continue
		}

		if spec > match || prefix == '-' {
			allow = prefix == '+'
		}
		match = spec
	}

	return allow
}

// Merge combines the rule array with another one. With override, rules
// of newPerms targeting the same domain replace existing ones;
// otherwise existing rules win.
func (p PermsArray) Merge(newPerms PermsArray, override bool) PermsArray {
	merged := make(PermsArray, len(p))
	copy(merged, p)

	for _, np := range newPerms {
		if len(np) < 2 {
			continue
		}

		i := indexOfDN(merged, np[1:])
		if i < 0 {
			merged = append(merged, np)
		} else if override {
			merged[i] = np
		}
	}

	return merged
}

// Update returns the rule array with the given rule applied. A rule
// consisting only of a prefix and a domain already present replaces
// the old entry; with remove set, the entry is deleted instead.
func (p PermsArray) Update(rule string, remove bool) PermsArray {
	if len(rule) < 2 {
		return p
	}

	i := indexOfDN(p, rule[1:])
	if remove {
		if i < 0 {
			return p
		}
		return append(p[:i], p[i+1:]...)
	}

	if i < 0 {
		return append(p, rule)
	}

	p[i] = rule
	return p
}

// matchDN matches a rule domain against a requested domain and returns
// the count of explicitly matched segments as specificity.
func matchDN(ruleDN, dn string) (spec int, ok bool) {
	ruleSegs := strings.Split(ruleDN, ".")
	dnSegs := strings.Split(dn, ".")

	for i, rs := range ruleSegs {
		if rs == "*" {
			return spec, true
		}
		if i >= len(dnSegs) || rs != dnSegs[i] {
			return 0, false
		}
		spec++
	}

	return spec, len(ruleSegs) == len(dnSegs)
}

func indexOfDN(p PermsArray, dn string) int {
	for i, rule := range p {
		if len(rule) > 1 && rule[1:] == dn {
			return i
		}
	}
	return -1
}
