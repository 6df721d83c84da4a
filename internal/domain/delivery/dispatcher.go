package delivery

import (
	"context"
	"errors"
	"sync"

	"github.com/carerota/backend/internal/repository"
	"github.com/carerota/backend/pkg/expopush"
	"github.com/carerota/backend/pkg/xcontext"
)

// PushProvider sends one push notification to one device token.
type PushProvider interface {
	Push(ctx context.Context, token, title, body string, data map[string]string) error
}

// TokenError records the failure of a single token within a dispatch.
type TokenError struct {
	Token string
	Err   error
}

// DispatchResult summarizes a fan-out. One dead token never fails the whole
// dispatch.
type DispatchResult struct {
	SuccessCount int
	Failures     []TokenError
}

// PushDispatcher fans a notification out to the device tokens of its
// recipients. Sends run concurrently, one goroutine per token.
type PushDispatcher struct {
	provider        PushProvider
	deviceTokenRepo repository.DeviceTokenRepository
}

func NewPushDispatcher(
	provider PushProvider,
	deviceTokenRepo repository.DeviceTokenRepository,
) *PushDispatcher {
	return &PushDispatcher{
		provider:        provider,
		deviceTokenRepo: deviceTokenRepo,
	}
}

// SendToUser pushes to every registered token of userID. A user with no
// registered device is a silent no-op.
func (d *PushDispatcher) SendToUser(
	ctx context.Context, userID, title, body string, data map[string]string,
) DispatchResult {
	tokens, err := d.deviceTokenRepo.TokensByUserID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot load device tokens of %s: %v", userID, err)
		return DispatchResult{}
	}

	return d.SendToTokens(ctx, tokens, title, body, data)
}

// SendToUsers pushes to every registered token of every user in userIDs.
func (d *PushDispatcher) SendToUsers(
	ctx context.Context, userIDs []string, title, body string, data map[string]string,
) DispatchResult {
	tokens := make([]string, 0, len(userIDs))
	for _, userID := range userIDs {
		userTokens, err := d.deviceTokenRepo.TokensByUserID(ctx, userID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot load device tokens of %s: %v", userID, err)
			continue
		}

		tokens = append(tokens, userTokens...)
	}

	return d.SendToTokens(ctx, tokens, title, body, data)
}

// SendToTokens pushes the same notification to every token concurrently and
// classifies per-token failures. The token store is read-only here; tokens
// the provider reports as dead age out when the device re-registers.
func (d *PushDispatcher) SendToTokens(
	ctx context.Context, tokens []string, title, body string, data map[string]string,
) DispatchResult {
	if len(tokens) == 0 {
		return DispatchResult{}
	}

	var (
		wg     sync.WaitGroup
		mutex  sync.Mutex
		result DispatchResult
	)

	for _, token := range tokens {
		if token == "" {
			continue
		}

		wg.Add(1)
		go func(token string) {
			defer wg.Done()

			err := d.provider.Push(ctx, token, title, body, data)

			mutex.Lock()
			defer mutex.Unlock()

			if err == nil {
				result.SuccessCount++
				return
			}

			result.Failures = append(result.Failures, TokenError{Token: token, Err: err})
			d.classify(ctx, token, err)
		}(token)
	}

	wg.Wait()
	return result
}

func (d *PushDispatcher) classify(ctx context.Context, token string, err error) {
	switch {
	case errors.Is(err, expopush.ErrDeviceNotRegistered),
		errors.Is(err, expopush.ErrInvalidToken):
		xcontext.Logger(ctx).Infof("Device token %s is no longer registered", token)

	case errors.Is(err, expopush.ErrInvalidCredentials):
		xcontext.Logger(ctx).Errorf("Push provider rejected our credentials: %v", err)

	case errors.Is(err, expopush.ErrRateExceeded):
		xcontext.Logger(ctx).Warnf("Push provider throttled token %s: %v", token, err)

	default:
		xcontext.Logger(ctx).Warnf("Cannot push to token %s: %v", token, err)
	}
}
