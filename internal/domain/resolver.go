package domain

import (
	m "sieve.dev/pkg/sieve/internal/model"
)

// Resolve turns classifications into dispositions for the given strategy.
// It performs no I/O.
func Resolve(strategy m.Strategy, results []m.Classification) m.Resolution {
	if strategy == m.StrategyValidity {
		return ResolveInvalid(results)
	}

	return ResolveCopies(results)
}

// GroupBySignature buckets files by signature in first-seen order and drops
// buckets with a single member.
func GroupBySignature(results []m.Classification) []m.Group {
	index := make(map[m.Signature]int)

	var groups []m.Group

	for _, result := range results {
		i, ok := index[result.Signature]
		if !ok {
			i = len(groups)
			index[result.Signature] = i
			groups = append(groups, m.Group{Signature: result.Signature})
		}

		groups[i].Members = append(groups[i].Members, result.File)
	}

	duplicates := groups[:0]

	for _, group := range groups {
		if len(group.Members) > 1 {
			duplicates = append(duplicates, group)
		}
	}

	return duplicates
}

// SelectSurvivor returns the index of the member to keep: the one with the
// longest directory path. Equal lengths go to the lexicographically smallest
// full path so the choice never depends on traversal order.
func SelectSurvivor(members []m.FileRef) int {
	best := -1

	for i, member := range members {
		if best < 0 {
			best = i
			continue
		}

		current := members[best]

		switch {
		case len(member.Dir) > len(current.Dir):
			best = i
		case len(member.Dir) == len(current.Dir) && member.Path() < current.Path():
			best = i
		}
	}

	return best
}

// ResolveCopies keeps one survivor per duplicate group and quarantines the
// rest, group by group.
func ResolveCopies(results []m.Classification) m.Resolution {
	var resolution m.Resolution

	for _, group := range GroupBySignature(results) {
		survivor := SelectSurvivor(group.Members)

		resolved := m.ResolvedGroup{
			Signature:   group.Signature,
			Survivor:    group.Members[survivor],
			Quarantined: make([]m.FileRef, 0, len(group.Members)-1),
		}

		for i, member := range group.Members {
			if i == survivor {
				continue
			}

			resolved.Quarantined = append(resolved.Quarantined, member)
			resolution.Quarantine = append(resolution.Quarantine, m.Decision{
				File:        member,
				Disposition: m.Quarantine,
				Reason:      "duplicate of " + resolved.Survivor.String(),
			})
		}

		resolution.Groups = append(resolution.Groups, resolved)
	}

	return resolution
}

// ResolveInvalid quarantines every file flagged invalid.
func ResolveInvalid(results []m.Classification) m.Resolution {
	var resolution m.Resolution

	for _, result := range results {
		if !result.Invalid {
			continue
		}

		resolution.Quarantine = append(resolution.Quarantine, m.Decision{
			File:        result.File,
			Disposition: m.Quarantine,
			Reason:      result.Reason,
		})
	}

	return resolution
}
