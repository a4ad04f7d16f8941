package eventstore

/***** AppendCondition *****/

// AppendCondition captures the consistency boundary observed by a Read: the
// filter that defines the boundary and the highest position of any matching
// event at read time. Passing it to Append makes the append conditional: it
// succeeds only if no event matching the filter was stored after that position
// in the meantime.
//
// A zero lastSeenPosition means no matching event existed at read time, so the
// append succeeds only if still no matching event exists.
type AppendCondition struct {
	filter           Filter
	lastSeenPosition Position
}

// CaptureAppendCondition builds an AppendCondition from a filter and the
// highest matching position observed. Engines build this during Read; callers
// normally never construct it themselves.
func CaptureAppendCondition(filter Filter, lastSeenPosition Position) AppendCondition {
	return AppendCondition{filter: filter, lastSeenPosition: lastSeenPosition}
}

func (ac AppendCondition) Filter() Filter {
	return ac.filter
}

func (ac AppendCondition) LastSeenPosition() Position {
	return ac.lastSeenPosition
}

/***** PositionRange *****/

// PositionRange is the contiguous range of global positions assigned to the
// events of one successful Append, From and To inclusive. For a single event
// From equals To.
type PositionRange struct {
	From Position
	To   Position
}

// Count returns the number of positions in the range, zero for the zero value.
// Positions start at 1, so a From of 0 marks an empty range.
func (pr PositionRange) Count() int {
	if pr.From == 0 || pr.To < pr.From {
		return 0
	}

	return int(pr.To - pr.From + 1)
}
