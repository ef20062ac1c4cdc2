package domain

import "sort"

// State is the whole application state owned by the store. It mirrors the
// persisted shape `{config, chains: {active, byId}, session}` plus the
// volatile connectivity branch.
type State struct {
	Config       Config       `json:"config"`
	Chains       Chains       `json:"chains"`
	Connectivity Connectivity `json:"connectivity"`
	Session      Session      `json:"session"`
}

// Chains holds the per-chain state of every enabled chain.
type Chains struct {
	Active string                `json:"active"`
	ByID   map[string]ChainState `json:"byId"`
}

// Connectivity tracks whether the wallet is online and the status of the
// single connections reported by the client (web3, indexer, ...).
type Connectivity struct {
	IsOnline    bool            `json:"isOnline"`
	Connections map[string]bool `json:"connections,omitempty"`
}

// Session holds the login state and the last error raised by the client.
type Session struct {
	HasEnoughData bool   `json:"hasEnoughData"`
	IsLoggedIn    bool   `json:"isLoggedIn"`
	LastError     string `json:"lastError,omitempty"`
}

// NewState returns the state the store starts with, before the initial
// state is received.
func NewState() State {
	return State{
		Config: Config{Chains: map[string]ChainConfig{}},
		Chains: Chains{ByID: map[string]ChainState{}},
		Connectivity: Connectivity{
			IsOnline:    true,
			Connections: map[string]bool{},
		},
	}
}

// ActiveChainState returns the state of the active chain, if any.
func (s State) ActiveChainState() (ChainState, bool) {
	if s.Chains.Active == "" {
		return ChainState{}, false
	}
	cs, ok := s.Chains.ByID[s.Chains.Active]
	return cs, ok
}

// ChainIDs returns the ids of the chains in the state, sorted so that
// iteration is deterministic.
func (s State) ChainIDs() []string {
	ids := make([]string, 0, len(s.Chains.ByID))
	for id := range s.Chains.ByID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Copy returns a deep copy of the state. Readers always work on copies so
// that reducers can keep mutating the store's own instance.
func (s State) Copy() State {
	out := s
	out.Config = s.Config.Copy()

	out.Chains.ByID = make(map[string]ChainState, len(s.Chains.ByID))
	for id, cs := range s.Chains.ByID {
		out.Chains.ByID[id] = cs.Copy()
	}

	out.Connectivity.Connections = make(map[string]bool, len(s.Connectivity.Connections))
	for k, v := range s.Connectivity.Connections {
		out.Connectivity.Connections[k] = v
	}
	return out
}

// PersistedState is the part of the state hydrated at init.
type PersistedState struct {
	Config  Config  `json:"config"`
	Chains  Chains  `json:"chains"`
	Session Session `json:"session"`
}

// Persisted returns a deep copy of the persisted part of the state. The
// session is bound to the running process and is never persisted.
func (s State) Persisted() PersistedState {
	c := s.Copy()
	return PersistedState{
		Config: c.Config,
		Chains: c.Chains,
	}
}

func (p PersistedState) Copy() PersistedState {
	c := State{Config: p.Config, Chains: p.Chains}.Copy()
	return PersistedState{
		Config:  c.Config,
		Chains:  c.Chains,
		Session: p.Session,
	}
}
