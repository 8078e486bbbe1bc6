package core

// mergeKey is the identity used when syncing task sets between accounts.
// Two tasks with the same title and status are the same task for merging,
// regardless of difficulty, estimate or description.
type mergeKey struct {
	title  string
	status TaskStatus
}

func keyOf(t *Task) mergeKey {
	return mergeKey{title: t.Title, status: t.Status}
}

// PlanMerge returns the tasks from source that target is missing.
//
// The returned tasks are copies detached from any account (ID and UserID
// cleared). Source tasks sharing a (title, status) pair collapse into one
// copy, so running the plan and planning again yields nothing.
func PlanMerge(source, target []*Task) []*Task {
	present := make(map[mergeKey]struct{}, len(target))
	for _, t := range target {
		present[keyOf(t)] = struct{}{}
	}

	var missing []*Task
	for _, t := range source {
		k := keyOf(t)
		if _, ok := present[k]; ok {
			continue
		}
		present[k] = struct{}{}

		cp := *t
		cp.ID = 0
		cp.UserID = ""
		if t.CompletedAt != nil {
			at := *t.CompletedAt
			cp.CompletedAt = &at
		}
		missing = append(missing, &cp)
	}
	return missing
}
