package delivery

import (
	"context"
	"encoding/json"
	"time"

	"github.com/carerota/backend/pkg/pubsub"
	"github.com/carerota/backend/pkg/xcontext"
)

// RelayEnvelope carries one socket frame between server instances. Origin is
// the sending instance; a subscriber drops envelopes it published itself,
// since it already delivered them locally.
type RelayEnvelope struct {
	Origin    string `json:"origin"`
	Channel   string `json:"channel"`
	UserID    string `json:"user_id,omitempty"`
	OrgID     string `json:"org_id"`
	Broadcast bool   `json:"broadcast"`
	Payload   []byte `json:"payload"`
}

// Relay delivers socket frames to local registries and mirrors them to the
// other instances through the broker. With no publisher configured it
// degrades to single-instance local delivery.
type Relay struct {
	instanceID string
	topic      string
	publisher  pubsub.Publisher
	registries map[string]*Registry
}

func NewRelay(ctx context.Context, publisher pubsub.Publisher, registries ...*Registry) *Relay {
	cfg := xcontext.Configs(ctx).Notification
	byChannel := make(map[string]*Registry, len(registries))
	for _, r := range registries {
		byChannel[r.Channel()] = r
	}

	return &Relay{
		instanceID: cfg.InstanceID,
		topic:      cfg.RelayTopic,
		publisher:  publisher,
		registries: byChannel,
	}
}

// SendTo delivers msg to one user's connection on channel, locally and on
// every peer instance. It reports whether a local connection took the frame.
func (r *Relay) SendTo(ctx context.Context, channel string, key ClientKey, msg []byte) bool {
	delivered := r.sendLocal(ctx, RelayEnvelope{
		Channel: channel,
		UserID:  key.UserID,
		OrgID:   key.OrgID,
		Payload: msg,
	})

	r.publish(ctx, RelayEnvelope{
		Origin:  r.instanceID,
		Channel: channel,
		UserID:  key.UserID,
		OrgID:   key.OrgID,
		Payload: msg,
	})

	return delivered > 0
}

// BroadcastOrg delivers msg to every connection of orgID on channel across
// all instances. excludeUserID skips the originator, empty excludes no one.
func (r *Relay) BroadcastOrg(ctx context.Context, channel, orgID, excludeUserID string, msg []byte) int {
	env := RelayEnvelope{
		Channel:   channel,
		UserID:    excludeUserID,
		OrgID:     orgID,
		Broadcast: true,
		Payload:   msg,
	}

	delivered := r.sendLocal(ctx, env)

	env.Origin = r.instanceID
	r.publish(ctx, env)

	return delivered
}

// HandleRelay is the broker subscription handler. It applies envelopes from
// peer instances to the local registries.
func (r *Relay) HandleRelay(ctx context.Context, pack *pubsub.Pack, t time.Time) {
	var env RelayEnvelope
	if err := json.Unmarshal(pack.Msg, &env); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot unmarshal relay envelope: %v", err)
		return
	}

	if env.Origin == r.instanceID {
		return
	}

	r.sendLocal(ctx, env)
}

func (r *Relay) sendLocal(ctx context.Context, env RelayEnvelope) int {
	registry, ok := r.registries[env.Channel]
	if !ok {
		xcontext.Logger(ctx).Warnf("Relay envelope for unknown channel %s", env.Channel)
		return 0
	}

	if env.Broadcast {
		return registry.Broadcast(ctx, env.Payload, func(key ClientKey) bool {
			return key.OrgID == env.OrgID && key.UserID != env.UserID
		})
	}

	if registry.SendTo(ctx, ClientKey{UserID: env.UserID, OrgID: env.OrgID}, env.Payload) {
		return 1
	}

	return 0
}

func (r *Relay) publish(ctx context.Context, env RelayEnvelope) {
	if r.publisher == nil {
		return
	}

	msg, err := json.Marshal(env)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot marshal relay envelope: %v", err)
		return
	}

	err = r.publisher.Publish(ctx, r.topic, &pubsub.Pack{Key: []byte(env.OrgID), Msg: msg})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot publish relay envelope: %v", err)
	}
}
