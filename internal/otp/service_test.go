package otp

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard/internal/logging"
	"jobboard/internal/notify"
	"jobboard/pkg/utils"
)

func newTestService(t *testing.T) (*Service, *notify.Outbox, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore(0)
	outbox := &notify.Outbox{}
	svc := NewService(store, outbox, NewRateLimiter(60, 10, 0), 5*time.Minute, logging.Discard())
	return svc, outbox, store
}

func TestGenerateCodeRange(t *testing.T) {
	for i := 0; i < 1000; i++ {
		code, err := GenerateCode()
		require.NoError(t, err)
		require.Len(t, code, 6)
		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, codeMin)
		assert.LessOrEqual(t, n, codeMax)
	}
}

func TestIssueThenVerifyOnce(t *testing.T) {
	svc, outbox, _ := newTestService(t)
	ctx := context.Background()

	code, err := svc.Issue(ctx, "+15550001234")
	require.NoError(t, err)

	msg, ok := outbox.LastSMS()
	require.True(t, ok)
	assert.Equal(t, "+15550001234", msg.To)
	assert.Equal(t, "Your OTP code is "+code, msg.Body)

	require.NoError(t, svc.Verify(ctx, "+15550001234", code))
	assert.ErrorIs(t, svc.Verify(ctx, "+15550001234", code), ErrInvalidCode)
}

func TestSecondIssueOverwritesFirst(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	codes := []string{"111111", "222222"}
	var i int32
	svc.newCode = func() (string, error) {
		return codes[atomic.AddInt32(&i, 1)-1], nil
	}

	first, err := svc.Issue(ctx, "+15550001234")
	require.NoError(t, err)
	second, err := svc.Issue(ctx, "+15550001234")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Verify(ctx, "+15550001234", first), ErrInvalidCode)
	assert.NoError(t, svc.Verify(ctx, "+15550001234", second))
}

func TestVerifyUnknownNumber(t *testing.T) {
	svc, _, _ := newTestService(t)
	assert.ErrorIs(t, svc.Verify(context.Background(), "+19999999999", "123456"), ErrInvalidCode)
}

func TestValidation(t *testing.T) {
	svc, outbox, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Issue(ctx, "  ")
	assert.ErrorIs(t, err, utils.ErrValidation)
	assert.Empty(t, outbox.SMS)

	assert.ErrorIs(t, svc.Verify(ctx, "", "123456"), utils.ErrValidation)
	assert.ErrorIs(t, svc.Verify(ctx, "+1555", ""), utils.ErrValidation)
}

func TestCodeSurvivesSendFailure(t *testing.T) {
	svc, outbox, store := newTestService(t)
	outbox.Err = errors.New("gateway down")
	ctx := context.Background()

	code, err := svc.Issue(ctx, "+15550001234")
	require.Error(t, err)
	assert.Equal(t, 1, store.Len())

	assert.NoError(t, svc.Verify(ctx, "+15550001234", code))
}

func TestRateLimited(t *testing.T) {
	store := NewMemoryStore(0)
	svc := NewService(store, &notify.Outbox{}, NewRateLimiter(1, 2, 0), time.Minute, logging.Discard())
	ctx := context.Background()

	_, err := svc.Issue(ctx, "+1")
	require.NoError(t, err)
	_, err = svc.Issue(ctx, "+1")
	require.NoError(t, err)
	_, err = svc.Issue(ctx, "+1")
	assert.ErrorIs(t, err, ErrRateLimited)

	// other numbers have their own bucket
	_, err = svc.Issue(ctx, "+2")
	assert.NoError(t, err)
}

func TestConcurrentVerifySucceedsOnce(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	code, err := svc.Issue(ctx, "+15550001234")
	require.NoError(t, err)

	var wins int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if svc.Verify(ctx, "+15550001234", code) == nil {
				atomic.AddInt32(&wins, 1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins)
}

func TestMask(t *testing.T) {
	assert.Equal(t, "********1234", mask("+15550001234"))
	assert.Equal(t, "****", mask("12"))
}
