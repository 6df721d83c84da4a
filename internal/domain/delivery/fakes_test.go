package delivery

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/carerota/backend/config"
	"github.com/carerota/backend/internal/entity"
	"github.com/carerota/backend/internal/repository"
	"github.com/carerota/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func testCtx(t *testing.T) context.Context {
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, config.Configs{
		Notification: config.NotificationConfigs{
			BatchWindow: 50 * time.Millisecond,
			InstanceID:  "instance-test",
			RelayTopic:  "delivery-relay",
		},
	})
	ctx = xcontext.WithSnowFlake(ctx, node)
	return ctx
}

var errWriteClosed = errors.New("write on closed connection")

type fakeConn struct {
	mutex  sync.Mutex
	frames [][]byte
	err    error
}

func (c *fakeConn) Write(msg []byte) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.err != nil {
		return c.err
	}

	c.frames = append(c.frames, msg)
	return nil
}

func (c *fakeConn) received() [][]byte {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return append([][]byte{}, c.frames...)
}

type pushCall struct {
	userID string
	title  string
	body   string
	data   map[string]string
}

type fakePusher struct {
	mutex      sync.Mutex
	calls      []pushCall
	panicUsers map[string]bool
}

func (p *fakePusher) SendToUser(
	ctx context.Context, userID, title, body string, data map[string]string,
) DispatchResult {
	if p.panicUsers[userID] {
		panic("provider exploded for " + userID)
	}

	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.calls = append(p.calls, pushCall{userID: userID, title: title, body: body, data: data})
	return DispatchResult{SuccessCount: 1}
}

func (p *fakePusher) callsFor(userID string) []pushCall {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	var result []pushCall
	for _, c := range p.calls {
		if c.userID == userID {
			result = append(result, c)
		}
	}

	return result
}

func (p *fakePusher) callCount() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	return len(p.calls)
}

type fakeBatchRecorder struct {
	mutex   sync.Mutex
	records []*entity.Notification
}

func (r *fakeBatchRecorder) Record(ctx context.Context, n *entity.Notification) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.records = append(r.records, n)
}

func (r *fakeBatchRecorder) recordedFor(userID string) []*entity.Notification {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var result []*entity.Notification
	for _, n := range r.records {
		for _, id := range n.RecipientUserIDs {
			if id == userID {
				result = append(result, n)
			}
		}
	}

	return result
}

type fakeProvider struct {
	mutex  sync.Mutex
	sent   []string
	errors map[string]error
}

func (p *fakeProvider) Push(
	ctx context.Context, token, title, body string, data map[string]string,
) error {
	p.mutex.Lock()
	p.sent = append(p.sent, token)
	p.mutex.Unlock()

	if err, ok := p.errors[token]; ok {
		return err
	}

	return nil
}

type fakeDeviceTokenRepo struct {
	mutex     sync.Mutex
	tokens    map[string][]string
	mutations []string
	err       error
}

func (r *fakeDeviceTokenRepo) Upsert(ctx context.Context, token *entity.DeviceToken) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.mutations = append(r.mutations, "upsert "+token.Token)
	return nil
}

func (r *fakeDeviceTokenRepo) Delete(ctx context.Context, userID, deviceIdentifier string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.mutations = append(r.mutations, "delete "+userID+"/"+deviceIdentifier)
	return nil
}

func (r *fakeDeviceTokenRepo) GetByUserID(ctx context.Context, userID string) ([]entity.DeviceToken, error) {
	return nil, errors.New("not implemented")
}

func (r *fakeDeviceTokenRepo) TokensByUserID(ctx context.Context, userID string) ([]string, error) {
	if r.err != nil {
		return nil, r.err
	}

	return r.tokens[userID], nil
}

type fakeNotificationRepo struct {
	mutex     sync.Mutex
	created   []*entity.Notification
	createErr error
	retracted []string
}

func (r *fakeNotificationRepo) Create(ctx context.Context, n *entity.Notification) error {
	if r.createErr != nil {
		return r.createErr
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.created = append(r.created, n)
	return nil
}

func (r *fakeNotificationRepo) GetByID(ctx context.Context, organizationID string, id int64) (*entity.Notification, error) {
	return nil, errors.New("not implemented")
}

func (r *fakeNotificationRepo) List(ctx context.Context, filter repository.NotificationFilter) ([]entity.Notification, error) {
	return nil, nil
}

func (r *fakeNotificationRepo) MarkRead(ctx context.Context, organizationID string, id int64, userID string) error {
	return nil
}

func (r *fakeNotificationRepo) MarkAllRead(ctx context.Context, filter repository.NotificationFilter) error {
	return nil
}

func (r *fakeNotificationRepo) CountUnread(ctx context.Context, filter repository.NotificationFilter) (int64, error) {
	return 0, nil
}

func (r *fakeNotificationRepo) Delete(ctx context.Context, organizationID string, id int64) error {
	return nil
}

func (r *fakeNotificationRepo) DeleteByReference(
	ctx context.Context, organizationID string, notificationType entity.NotificationType, referenceID string,
) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.retracted = append(r.retracted, referenceID)
	return nil
}

type fakeMemberRepo struct {
	members []entity.Member
}

func (r *fakeMemberRepo) Create(ctx context.Context, member *entity.Member) error {
	r.members = append(r.members, *member)
	return nil
}

func (r *fakeMemberRepo) Get(ctx context.Context, userID, organizationID string) (*entity.Member, error) {
	for i := range r.members {
		if r.members[i].UserID == userID && r.members[i].OrganizationID == organizationID {
			return &r.members[i], nil
		}
	}

	return nil, errors.New("member not found")
}

func (r *fakeMemberRepo) GetByRole(ctx context.Context, organizationID string, role entity.Role) ([]entity.Member, error) {
	var result []entity.Member
	for _, m := range r.members {
		if m.OrganizationID == organizationID && m.Role == role {
			result = append(result, m)
		}
	}

	return result, nil
}

func (r *fakeMemberRepo) GetByOrganizationID(ctx context.Context, organizationID string) ([]entity.Member, error) {
	var result []entity.Member
	for _, m := range r.members {
		if m.OrganizationID == organizationID {
			result = append(result, m)
		}
	}

	return result, nil
}
