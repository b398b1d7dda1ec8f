package service

import (
	"context"
	"encoding/json"
	"log"
	"sort"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/dlawiz83/SkillSwap/internal/match/domain"
	profiledomain "github.com/dlawiz83/SkillSwap/internal/profile/domain"
	profilesvc "github.com/dlawiz83/SkillSwap/internal/profile/service"
)

const discoverCacheTTL = 60 * time.Second

// Ranked is one discovery result: a candidate and their score against
// the requesting user.
type Ranked struct {
	Profile profiledomain.Profile `json:"profile"`
	Score   int                   `json:"score"`
}

// Discovery ranks the candidate pool for a user. Read-only; it runs on
// whatever snapshot the store returns, and a slightly stale karma bonus
// is fine.
type Discovery struct {
	profiles *profilesvc.ProfileSvc
	cache    *redis.Client // nil disables caching
}

func NewDiscovery(profiles *profilesvc.ProfileSvc, cache *redis.Client) *Discovery {
	return &Discovery{profiles: profiles, cache: cache}
}

// Discover scores every other profile against meID and returns them
// ranked high to low. Ties keep the candidates' enumeration order.
func (d *Discovery) Discover(ctx context.Context, meID string) ([]Ranked, error) {
	if cached, ok := d.fromCache(ctx, meID); ok {
		return cached, nil
	}

	me, err := d.profiles.Get(ctx, meID)
	if err != nil {
		return nil, err
	}
	candidates, err := d.profiles.ListExcluding(ctx, meID)
	if err != nil {
		return nil, err
	}

	out := make([]Ranked, 0, len(candidates))
	for i := range candidates {
		out = append(out, Ranked{Profile: candidates[i], Score: domain.Score(me, &candidates[i])})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })

	d.toCache(ctx, meID, out)
	return out, nil
}

func cacheKey(meID string) string { return "discover:" + meID }

func (d *Discovery) fromCache(ctx context.Context, meID string) ([]Ranked, bool) {
	if d.cache == nil {
		return nil, false
	}
	b, err := d.cache.Get(ctx, cacheKey(meID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("[discovery] cache get: %v", err)
		}
		return nil, false
	}
	var out []Ranked
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, false
	}
	return out, true
}

func (d *Discovery) toCache(ctx context.Context, meID string, out []Ranked) {
	if d.cache == nil {
		return
	}
	b, err := json.Marshal(out)
	if err != nil {
		return
	}
	if err := d.cache.Set(ctx, cacheKey(meID), b, discoverCacheTTL).Err(); err != nil {
		log.Printf("[discovery] cache set: %v", err)
	}
}
