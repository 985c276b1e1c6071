package service_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"campuslink.cn/community/internal/repository"
	"campuslink.cn/community/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnonymousNameStableWithinWindow(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	repo := repository.NewAnonymousIdentityRepository(env.db)
	names := nameSequence("某同学A", "神秘小熊")
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := service.NewAnonymousNameServiceWithClock(repo, names, func() time.Time { return now })

	userID := uuid.New()
	scopeID := uuid.New()

	first, err := svc.Resolve(ctx, userID, scopeID)
	require.NoError(t, err)
	assert.Equal(t, "某同学A", first.DisplayName)
	assert.Equal(t, now.Add(service.AnonymousNameWindow), first.ExpiresAt)

	// One second before expiry the name is still pinned.
	now = first.ExpiresAt.Add(-time.Second)
	again, err := svc.Resolve(ctx, userID, scopeID)
	require.NoError(t, err)
	assert.Equal(t, "某同学A", again.DisplayName)
	assert.Equal(t, first.ID, again.ID)
}

func TestAnonymousNameRotatesAfterWindow(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	repo := repository.NewAnonymousIdentityRepository(env.db)
	names := nameSequence("某同学A", "神秘小熊")
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := service.NewAnonymousNameServiceWithClock(repo, names, func() time.Time { return now })

	userID := uuid.New()
	scopeID := uuid.New()

	first, err := svc.Resolve(ctx, userID, scopeID)
	require.NoError(t, err)

	now = now.Add(service.AnonymousNameWindow + time.Minute)
	rotated, err := svc.Resolve(ctx, userID, scopeID)
	require.NoError(t, err)
	assert.Equal(t, "神秘小熊", rotated.DisplayName)
	assert.Equal(t, now.Add(service.AnonymousNameWindow), rotated.ExpiresAt)
	// Rotation rewrites the row instead of stacking a second identity.
	assert.Equal(t, first.ID, rotated.ID)

	var count int64
	require.NoError(t, env.db.Table("anonymous_identities").
		Where("user_id = ? AND scope_id = ?", userID, scopeID).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestAnonymousNameScopedPerTarget(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	repo := repository.NewAnonymousIdentityRepository(env.db)
	names := nameSequence("某同学A", "某同学B")
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := service.NewAnonymousNameServiceWithClock(repo, names, func() time.Time { return now })

	userID := uuid.New()

	first, err := svc.Resolve(ctx, userID, uuid.New())
	require.NoError(t, err)
	second, err := svc.Resolve(ctx, userID, uuid.New())
	require.NoError(t, err)
	assert.NotEqual(t, first.DisplayName, second.DisplayName)
}

func TestGenerateAnonymousNameFormats(t *testing.T) {
	prefixes := []string{
		"某同学", "神秘", "匿名", "隐藏的", "害羞的", "低调的",
		"沉默的", "安静的", "悄悄的", "小小的", "可爱的",
	}
	for i := 0; i < 50; i++ {
		name := service.GenerateAnonymousName()
		require.NotEmpty(t, name)

		matched := false
		for _, p := range prefixes {
			if strings.HasPrefix(name, p) {
				matched = true
				break
			}
		}
		assert.True(t, matched, "unexpected name %q", name)

		if rest, ok := strings.CutPrefix(name, "某同学"); ok {
			require.Len(t, rest, 1)
			assert.GreaterOrEqual(t, rest[0], byte('A'))
			assert.LessOrEqual(t, rest[0], byte('Z'))
		}
	}
}

// nameSequence returns the given names in order, then keeps counting past them.
func nameSequence(names ...string) func() string {
	i := 0
	return func() string {
		if i < len(names) {
			name := names[i]
			i++
			return name
		}
		i++
		return fmt.Sprintf("某同学%d", i)
	}
}
