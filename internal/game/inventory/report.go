package inventory

// TransferGroup collects the transfers from one actor to another.
type TransferGroup struct {
	SourceActorID string
	TargetActorID string
	Transfers     []TransferRequest
}

// GroupTransfers groups requests by (source, target) actor pair in first-seen
// order. Moves within one actor are not reported.
func GroupTransfers(reqs []TransferRequest) []TransferGroup {
	var groups []TransferGroup
	for _, r := range reqs {
		if r.Local() {
			continue
		}
		idx := -1
		for i, g := range groups {
			if g.SourceActorID == r.SourceActorID && g.TargetActorID == r.TargetActorID {
				idx = i
				break
			}
		}
		if idx < 0 {
			groups = append(groups, TransferGroup{SourceActorID: r.SourceActorID, TargetActorID: r.TargetActorID})
			idx = len(groups) - 1
		}
		groups[idx].Transfers = append(groups[idx].Transfers, r)
	}
	return groups
}
