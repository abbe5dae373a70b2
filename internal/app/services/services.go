package services

import (
	"time"

	"github.com/qpshare/qpshare/internal/app/repositories"
	"github.com/qpshare/qpshare/internal/config"
	"github.com/qpshare/qpshare/internal/pkg/auth"
	"github.com/qpshare/qpshare/internal/pkg/objectstorage"
)

// approvedSnapshotTTL bounds how stale the public search surface can get
// between mutations.
const approvedSnapshotTTL = 30 * time.Second

// Services holds all the service instances
type Services struct {
	AuthService       *AuthService
	SearchService     *SearchService
	ModerationService *ModerationService
	UploadService     *UploadService
	OrphanSweeper     *OrphanSweeper
}

// NewServices initializes all services
func NewServices(repos *repositories.Repositories, jwtService *auth.JWTService, storage objectstorage.ObjectStorage, cfg *config.Config) *Services {
	cache := NewApprovedCache(approvedSnapshotTTL)
	search := NewSearchService(repos.PaperRepository, cache)

	return &Services{
		AuthService:       NewAuthService(repos.UserRepository, jwtService, cfg.AdminCredentials()),
		SearchService:     search,
		ModerationService: NewModerationService(repos.PaperRepository, search),
		UploadService:     NewUploadService(repos.PaperRepository, repos.OrphanRepository, storage, search),
		OrphanSweeper:     NewOrphanSweeper(repos.OrphanRepository, storage),
	}
}
