package model

import (
	"fmt"
	"sort"
)

// Role is the class index used for the centroid table.
type Role int

const (
	// Minority is the least frequent class.
	Minority Role = iota
	// Majority is the most frequent class.
	Majority
)

// String returns the role name.
func (r Role) String() string {
	switch r {
	case Minority:
		return "minority"
	case Majority:
		return "majority"
	}
	return fmt.Sprintf("role(%d)", int(r))
}

// Labels are the class labels aligned by row index with a Table.
type Labels []string

// Counts returns the number of occurrences for each label.
func (l Labels) Counts() map[string]int {
	counts := make(map[string]int)
	for _, label := range l {
		counts[label]++
	}
	return counts
}

// Classes describes the minority and majority class of a label vector.
type Classes struct {
	Minority      string `json:"minority"`
	Majority      string `json:"majority"`
	MinorityCount int    `json:"minority_count"`
	MajorityCount int    `json:"majority_count"`
	// Tied is set when both classes have the same number of samples.
	Tied bool `json:"tied"`
}

// Resolve finds the minority and majority class of the labels.
// Exactly two distinct labels are supported.
// On a tie the lexicographically smaller label is the majority.
func (l Labels) Resolve() (Classes, error) {
	counts := l.Counts()
	if len(counts) != 2 {
		return Classes{}, fmt.Errorf("found %d distinct labels %v: %w", len(counts), keys(counts), ErrClassCount)
	}
	kk := keys(counts)
	first, second := kk[0], kk[1]
	cls := Classes{
		Majority:      first,
		Minority:      second,
		MajorityCount: counts[first],
		MinorityCount: counts[second],
	}
	if counts[second] > counts[first] {
		cls = Classes{
			Majority:      second,
			Minority:      first,
			MajorityCount: counts[second],
			MinorityCount: counts[first],
		}
	}
	cls.Tied = cls.MajorityCount == cls.MinorityCount
	return cls, nil
}

// Role returns the role of the given label.
func (c Classes) Role(label string) (Role, error) {
	switch label {
	case c.Minority:
		return Minority, nil
	case c.Majority:
		return Majority, nil
	}
	return 0, fmt.Errorf("unknown label '%s': %w", label, ErrClassCount)
}

// Label returns the label for the given role.
func (c Classes) Label(r Role) string {
	if r == Minority {
		return c.Minority
	}
	return c.Majority
}

// Roles maps every label to its role.
func (c Classes) Roles(labels Labels) ([]Role, error) {
	roles := make([]Role, len(labels))
	for i, label := range labels {
		r, err := c.Role(label)
		if err != nil {
			return nil, fmt.Errorf("label at row %d: %w", i, err)
		}
		roles[i] = r
	}
	return roles, nil
}

func keys(counts map[string]int) []string {
	kk := make([]string, 0, len(counts))
	for k := range counts {
		kk = append(kk, k)
	}
	sort.Strings(kk)
	return kk
}
