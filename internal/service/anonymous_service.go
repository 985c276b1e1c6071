package service

import (
	"context"
	"math/rand/v2"
	"time"

	"campuslink.cn/community/internal/model"
	"campuslink.cn/community/internal/repository"
	"github.com/google/uuid"
)

// AnonymousNameWindow is how long a pseudonym stays pinned to its
// (author, post) pair before a lookup mints a fresh one.
const AnonymousNameWindow = 24 * time.Hour

var (
	studentPrefix = "某同学"

	cutePrefixes = []string{
		"神秘", "匿名", "隐藏的", "害羞的", "低调的",
		"沉默的", "安静的", "悄悄的", "小小的", "可爱的",
	}

	cuteAnimals = []string{
		"小熊", "企鹅", "猫咪", "兔子", "狐狸",
		"松鼠", "考拉", "海豚", "熊猫", "小鹿",
		"小狗", "小鸟", "仓鼠", "浣熊", "刺猬",
	}
)

// GenerateAnonymousName picks one of two formats uniformly: a student label
// with a random letter, or a cute prefix-animal pairing.
func GenerateAnonymousName() string {
	if rand.IntN(2) == 0 {
		return studentPrefix + string(rune('A'+rand.IntN(26)))
	}
	return cutePrefixes[rand.IntN(len(cutePrefixes))] + cuteAnimals[rand.IntN(len(cuteAnimals))]
}

// AnonymousNameService issues and lazily rotates display pseudonyms.
// Rotation only happens on Resolve; there is no background sweep.
type AnonymousNameService interface {
	Resolve(ctx context.Context, userID, scopeID uuid.UUID) (*model.AnonymousIdentity, error)
}

type anonymousNameService struct {
	repo     repository.AnonymousIdentityRepository
	generate func() string
	now      func() time.Time
}

func NewAnonymousNameService(repo repository.AnonymousIdentityRepository) AnonymousNameService {
	return &anonymousNameService{
		repo:     repo,
		generate: GenerateAnonymousName,
		now:      time.Now,
	}
}

// NewAnonymousNameServiceWithClock allows a fixed generator and clock for
// deterministic tests.
func NewAnonymousNameServiceWithClock(repo repository.AnonymousIdentityRepository, generate func() string, now func() time.Time) AnonymousNameService {
	return &anonymousNameService{repo: repo, generate: generate, now: now}
}

func (s *anonymousNameService) Resolve(ctx context.Context, userID, scopeID uuid.UUID) (*model.AnonymousIdentity, error) {
	now := s.now()

	existing, err := s.repo.FindByUserAndScope(ctx, userID, scopeID)
	if err != nil {
		return nil, err
	}
	if existing != nil && now.Before(existing.ExpiresAt) {
		return existing, nil
	}

	identity := &model.AnonymousIdentity{
		UserID:      userID,
		ScopeID:     scopeID,
		DisplayName: s.generate(),
		ExpiresAt:   now.Add(AnonymousNameWindow),
	}
	if existing != nil {
		identity.ID = existing.ID
	}
	if err := s.repo.Upsert(ctx, identity); err != nil {
		return nil, err
	}
	return identity, nil
}
