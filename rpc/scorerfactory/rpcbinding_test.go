package scorerfactory

import (
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/stretchr/testify/require"
	"github.com/trustful-labs/trustful-contract/rpc/scorer"
)

type testInv struct {
	err error
	res *result.Invoke
}

func (t *testInv) Call(util.Uint160, string, ...any) (*result.Invoke, error) {
	return t.res, t.err
}

func metaItems(name, description, icon string) []stackitem.Item {
	return []stackitem.Item{stackitem.Make(name), stackitem.Make(description), stackitem.Make(icon)}
}

func TestGetScorers(t *testing.T) {
	ti := new(testInv)
	r := NewReader(ti, util.Uint160{1})

	s1, s2 := util.Uint160{1}, util.Uint160{2}

	m := stackitem.NewMap()
	m.Add(stackitem.NewByteArray(s1.BytesBE()), stackitem.NewStruct(metaItems("a", "b", "c")))
	m.Add(stackitem.NewByteArray(s2.BytesBE()), stackitem.NewStruct(metaItems("d", "e", "f")))
	ti.res = &result.Invoke{State: "HALT", Stack: []stackitem.Item{m}}

	res, err := r.GetScorers()
	require.NoError(t, err)
	require.Equal(t, map[util.Uint160]*scorer.Metadata{
		s1: {Name: "a", Description: "b", Icon: "c"},
		s2: {Name: "d", Description: "e", Icon: "f"},
	}, res)

	m = stackitem.NewMap()
	m.Add(stackitem.NewByteArray(s1.BytesBE()), stackitem.NewStruct(metaItems("a", "b", "c")[:2]))
	ti.res = &result.Invoke{State: "HALT", Stack: []stackitem.Item{m}}

	_, err = r.GetScorers()
	require.Error(t, err)
}

func TestEventsFromApplicationLog(t *testing.T) {
	var (
		factory = util.Uint160{0xfa}
		caller  = util.Uint160{1}
		scr     = util.Uint160{2}
	)

	created := stackitem.NewArray(append([]stackitem.Item{
		stackitem.NewByteArray(caller.BytesBE()),
		stackitem.NewByteArray(scr.BytesBE()),
	}, metaItems("n", "d", "i")...))

	log := &result.ApplicationLog{Executions: []state.Execution{{
		VMState: vmstate.Halt,
		Events:  []state.NotificationEvent{
			{ScriptHash: util.Uint160{0xde}, Name: "Deployed", Item: stackitem.NewArray(nil)},
			{ScriptHash: scr, Name: "ScorerInitialized", Item: stackitem.NewArray(nil)},
			{ScriptHash: factory, Name: "ScorerCreated", Item: created},
			{ScriptHash: factory, Name: "PolicyChanged", Item: stackitem.NewArray([]stackitem.Item{
				stackitem.NewByteArray(caller.BytesBE()),
				stackitem.NewBool(false),
				stackitem.NewBool(true),
			})},
		},
	}}}

	evs, err := EventsFromApplicationLog(log, factory)
	require.NoError(t, err)
	require.Equal(t, []Event{
		&ScorerCreatedEvent{
			Deployer: caller,
			Scorer:   scr,
			Metadata: scorer.Metadata{Name: "n", Description: "d", Icon: "i"},
		},
		&PolicyChangedEvent{Caller: caller, ManagerOnlyCreate: false, KeepLastManager: true},
	}, evs)

	onlyCreated, err := ScorerCreatedEventsFromApplicationLog(log)
	require.NoError(t, err)
	require.Len(t, onlyCreated, 1)

	t.Run("faulted execution", func(t *testing.T) {
		faulted := *log
		faulted.Executions = []state.Execution{log.Executions[0]}
		faulted.Executions[0].VMState = vmstate.Fault

		evs, err := EventsFromApplicationLog(&faulted, factory)
		require.NoError(t, err)
		require.Empty(t, evs)
	})

	log.Executions[0].Events[2].Item = stackitem.NewArray(nil)
	_, err = EventsFromApplicationLog(log, factory)
	require.Error(t, err)
}
