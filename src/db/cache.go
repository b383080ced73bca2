package db

import (
	"log"
	"sync"

	"github.com/dgraph-io/ristretto"
)

// Summary queries fan out over several aggregations, so results are cached
// per user+range. Keys are tracked per user so any transaction write can
// drop every cached summary for that user at once.
var (
	Cache            *ristretto.Cache
	summaryCacheKeys = struct {
		sync.RWMutex
		m map[int]map[string]struct{}
	}{m: make(map[int]map[string]struct{})}
)

func InitCache() {
	var err error
	Cache, err = ristretto.NewCache(&ristretto.Config{
		NumCounters: 10000, // number of keys to track frequency of
		MaxCost:     10000,
		BufferItems: 64, // number of keys per Get buffer
	})
	if err != nil {
		log.Fatalf("failed to initialize cache: %v", err)
	}
}

func SetSummaryCache(userID int, cacheKey string, value interface{}) {
	summaryCacheKeys.Lock()
	if summaryCacheKeys.m[userID] == nil {
		summaryCacheKeys.m[userID] = make(map[string]struct{})
	}
	summaryCacheKeys.m[userID][cacheKey] = struct{}{}
	summaryCacheKeys.Unlock()
	Cache.Set(cacheKey, value, 1)
}

func GetSummaryCache(cacheKey string) (interface{}, bool) {
	if Cache == nil {
		return nil, false
	}
	return Cache.Get(cacheKey)
}

// ClearSummaryCaches drops every cached summary for one user. Called after
// any write that changes the user's transactions or budgets.
func ClearSummaryCaches(userID int) {
	if Cache == nil {
		return
	}
	summaryCacheKeys.Lock()
	for key := range summaryCacheKeys.m[userID] {
		Cache.Del(key)
	}
	delete(summaryCacheKeys.m, userID)
	summaryCacheKeys.Unlock()
}
