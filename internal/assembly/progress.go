package assembly

// Observer receives traversal progress. It is an output side channel only:
// nothing an observer does can change what the traversal visits or returns.
type Observer interface {
	// OnTraversalStart is called once with the root document path and the
	// number of root occurrences.
	OnTraversalStart(root string, rootOccurrences int)

	// OnNodeVisited is called for every occurrence, valid or not.
	OnNodeVisited(visited int, label string)

	// OnTraversalComplete is called when the traversal finished successfully.
	OnTraversalComplete(stats Stats)
}

// NoOpObserver is an observer that does nothing.
// Used when progress reporting is disabled (e.g., --quiet flag).
type NoOpObserver struct{}

func (NoOpObserver) OnTraversalStart(root string, rootOccurrences int) {}
func (NoOpObserver) OnNodeVisited(visited int, label string)           {}
func (NoOpObserver) OnTraversalComplete(stats Stats)                   {}
