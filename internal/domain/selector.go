package domain

import "strings"

// SelectTarget resolves the discovered targets to exactly one. Without an
// explicit id a single target is assumed; several targets are never guessed
// between.
func SelectTarget(targets []Target, explicitID TargetID) (Target, error) {
	if len(targets) == 0 {
		return Target{}, &NoTargetError{}
	}

	requested := TargetID(strings.TrimSpace(string(explicitID)))
	if requested != "" {
		return selectExplicit(targets, requested)
	}

	if len(targets) == 1 {
		return targets[0], nil
	}

	return Target{}, &AmbiguousTargetError{Candidates: cloneTargets(targets)}
}

func selectExplicit(targets []Target, id TargetID) (Target, error) {
	for _, target := range targets {
		if target.ID == id {
			return target, nil
		}
	}

	var byTitle []Target
	for _, target := range targets {
		if strings.EqualFold(strings.TrimSpace(target.Title), string(id)) {
			byTitle = append(byTitle, target)
		}
	}

	switch len(byTitle) {
	case 0:
		return Target{}, &NotFoundError{ID: id, Candidates: cloneTargets(targets)}
	case 1:
		return byTitle[0], nil
	default:
		return Target{}, &AmbiguousTargetError{Candidates: byTitle}
	}
}

func cloneTargets(targets []Target) []Target {
	return append([]Target(nil), targets...)
}
