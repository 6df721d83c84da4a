package delivery

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/carerota/backend/pkg/pubsub"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	mutex sync.Mutex
	packs []*pubsub.Pack
}

func (p *fakePublisher) Publish(ctx context.Context, topic string, pack *pubsub.Pack) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.packs = append(p.packs, pack)
	return nil
}

func (p *fakePublisher) Stop(ctx context.Context) error {
	return nil
}

func TestRelayDeliversLocallyAndMirrorsToBroker(t *testing.T) {
	ctx := testCtx(t)
	registry := NewRegistry(ChatChannel)
	publisher := &fakePublisher{}
	relay := NewRelay(ctx, publisher, registry)

	conn := &fakeConn{}
	key := ClientKey{UserID: "u1", OrgID: "org1"}
	registry.Register(ctx, key, conn)

	require.True(t, relay.SendTo(ctx, ChatChannel, key, []byte(`{"hi":1}`)))
	require.Len(t, conn.received(), 1)

	require.Len(t, publisher.packs, 1)
	var env RelayEnvelope
	require.NoError(t, json.Unmarshal(publisher.packs[0].Msg, &env))
	require.Equal(t, "instance-test", env.Origin)
	require.Equal(t, ChatChannel, env.Channel)
	require.Equal(t, "u1", env.UserID)
}

func TestRelayIgnoresOwnEnvelopes(t *testing.T) {
	ctx := testCtx(t)
	registry := NewRegistry(ChatChannel)
	relay := NewRelay(ctx, nil, registry)

	conn := &fakeConn{}
	key := ClientKey{UserID: "u1", OrgID: "org1"}
	registry.Register(ctx, key, conn)

	own, err := json.Marshal(RelayEnvelope{
		Origin:  "instance-test",
		Channel: ChatChannel,
		UserID:  "u1",
		OrgID:   "org1",
		Payload: []byte(`{"hi":1}`),
	})
	require.NoError(t, err)
	relay.HandleRelay(ctx, &pubsub.Pack{Msg: own}, time.Now())
	require.Empty(t, conn.received())

	foreign, err := json.Marshal(RelayEnvelope{
		Origin:  "instance-other",
		Channel: ChatChannel,
		UserID:  "u1",
		OrgID:   "org1",
		Payload: []byte(`{"hi":1}`),
	})
	require.NoError(t, err)
	relay.HandleRelay(ctx, &pubsub.Pack{Msg: foreign}, time.Now())
	require.Len(t, conn.received(), 1)
}

func TestRelayBroadcastExcludesOriginator(t *testing.T) {
	ctx := testCtx(t)
	registry := NewRegistry(TasksChannel)
	relay := NewRelay(ctx, nil, registry)

	editor := &fakeConn{}
	peer := &fakeConn{}
	registry.Register(ctx, ClientKey{UserID: "editor", OrgID: "org1"}, editor)
	registry.Register(ctx, ClientKey{UserID: "peer", OrgID: "org1"}, peer)

	delivered := relay.BroadcastOrg(ctx, TasksChannel, "org1", "editor", []byte(`{"x":1}`))
	require.Equal(t, 1, delivered)
	require.Empty(t, editor.received())
	require.Len(t, peer.received(), 1)
}

func TestRelayWithoutPublisherIsLocalOnly(t *testing.T) {
	ctx := testCtx(t)
	registry := NewRegistry(ChatChannel)
	relay := NewRelay(ctx, nil, registry)

	require.NotPanics(t, func() {
		relay.SendTo(ctx, ChatChannel, ClientKey{UserID: "u1", OrgID: "org1"}, []byte("x"))
	})
}
