package services

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/qpshare/qpshare/internal/app/models"
)

const approvedSnapshotKey = "approved"

// ApprovedCache holds a short-lived snapshot of the approved set so the
// search surface does not hit the catalog store on every request. Mutations
// must call Invalidate so readers never see a stale set longer than one TTL.
type ApprovedCache struct {
	lru *expirable.LRU[string, []models.Paper]
}

// NewApprovedCache creates a snapshot cache with the given TTL
func NewApprovedCache(ttl time.Duration) *ApprovedCache {
	return &ApprovedCache{
		lru: expirable.NewLRU[string, []models.Paper](1, nil, ttl),
	}
}

// Get returns the cached snapshot if one is live
func (c *ApprovedCache) Get() ([]models.Paper, bool) {
	return c.lru.Get(approvedSnapshotKey)
}

// Set stores a fresh snapshot
func (c *ApprovedCache) Set(papers []models.Paper) {
	c.lru.Add(approvedSnapshotKey, papers)
}

// Invalidate drops the snapshot
func (c *ApprovedCache) Invalidate() {
	c.lru.Remove(approvedSnapshotKey)
}
