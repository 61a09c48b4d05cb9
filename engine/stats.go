package engine

import "github.com/rs/zerolog"

type Stats struct {
	Nodes     uint64 `json:"nodes"`     // #nodes visited, leaves included
	Leaves    uint64 `json:"leaves"`    // #nodes scored by the evaluator
	Terminals uint64 `json:"terminals"` // #leaves reached because no legal move remained
	Cutoffs   uint64 `json:"cutoffs"`   // #nodes that stopped early on beta <= alpha
}

func (st Stats) MarshalZerologObject(e *zerolog.Event) {
	e.Uint64("nodes", st.Nodes).
		Uint64("leaves", st.Leaves).
		Uint64("terminals", st.Terminals).
		Uint64("cutoffs", st.Cutoffs)
}
