package loan

import "slices"

// Option sets offered by the loan request form.
var (
	Durations     = []int{30, 60, 90, 180}
	Purposes      = []string{"business_expansion", "inventory", "equipment", "working_capital", "debt_consolidation", "other"}
	Relationships = []string{"family", "friend", "colleague", "other"}
	Providers     = []string{"mtn", "vodafone", "airteltigo"}
)

func ValidDuration(days int) bool { return slices.Contains(Durations, days) }

func ValidPurpose(p string) bool { return slices.Contains(Purposes, p) }

func ValidRelationship(r string) bool { return slices.Contains(Relationships, r) }

func ValidProvider(p string) bool { return slices.Contains(Providers, p) }
