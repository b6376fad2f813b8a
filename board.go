package launchboard

import (
	"github.com/jpalmerr/launchboard/internal/server"
	"github.com/jpalmerr/launchboard/internal/store"
)

// board adapts a LaunchBoard to the server's rendering interface.
type board struct {
	lb *LaunchBoard
}

var _ server.Board = board{}

func (b board) States() []server.EntityState {
	states := b.lb.States()
	out := make([]server.EntityState, len(states))
	for i, st := range states {
		out[i] = stateToServerState(st)
	}
	return out
}

func (b board) Status() server.StatusResponse {
	return server.StatusResponse{
		Status:          b.lb.cache.Status(),
		IntervalSeconds: b.lb.pollingInterval.Seconds(),
	}
}

func (b board) RequestRefresh() bool {
	return b.lb.RequestRefresh()
}

func (b board) Subscribe() <-chan store.Change {
	return b.lb.cache.Subscribe()
}

func (b board) Unsubscribe(ch <-chan store.Change) {
	b.lb.cache.Unsubscribe(ch)
}

// stateToServerState converts a public State to the server's JSON type.
func stateToServerState(st State) server.EntityState {
	return server.EntityState{
		EntityID:   st.EntityID,
		Name:       st.Name,
		Kind:       st.Kind,
		State:      st.Value,
		Unit:       st.Unit,
		Icon:       st.Icon,
		Available:  st.Available,
		Attributes: st.Attributes,
		Device: server.Device{
			Identifiers:  st.Device.Identifiers(),
			Name:         st.Device.Name,
			Manufacturer: st.Device.Manufacturer,
			Model:        st.Device.Model,
		},
		UpdatedAt: st.UpdatedAt,
	}
}
