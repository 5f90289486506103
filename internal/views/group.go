package views

import (
	"sort"
	"strings"

	"github.com/BruksfildServices01/lead-crm/internal/crm"
)

type GroupBy string

const (
	ByStatus GroupBy = "status"
	ByAgent  GroupBy = "agent"
)

// ParseGroupBy accepts "status" or "agent".
func ParseGroupBy(s string) (GroupBy, bool) {
	switch GroupBy(strings.ToLower(strings.TrimSpace(s))) {
	case ByStatus:
		return ByStatus, true
	case ByAgent:
		return ByAgent, true
	}
	return "", false
}

type LeadGroup struct {
	Key   string
	Leads []crm.Lead
}

// Group partitions leads. Status groups follow the pipeline order, with
// unknown statuses after it alphabetically; agent groups are alphabetical.
func Group(leads []crm.Lead, by GroupBy) []LeadGroup {
	index := make(map[string]int)
	var groups []LeadGroup

	for _, l := range leads {
		key := l.AgentName()
		if by == ByStatus {
			key = string(l.Status)
		}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, LeadGroup{Key: key})
		}
		groups[i].Leads = append(groups[i].Leads, l)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if by == ByStatus {
			ri, rj := statusRank(groups[i].Key), statusRank(groups[j].Key)
			if ri != rj {
				return ri < rj
			}
		}
		return strings.ToLower(groups[i].Key) < strings.ToLower(groups[j].Key)
	})
	return groups
}

func statusRank(s string) int {
	st, ok := crm.ParseStatus(s)
	if !ok {
		return len(crm.StatusOrder)
	}
	for i, known := range crm.StatusOrder {
		if known == st {
			return i
		}
	}
	return len(crm.StatusOrder)
}
