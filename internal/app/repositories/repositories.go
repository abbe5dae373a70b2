package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository   *UserRepository
	PaperRepository  *PaperRepository
	OrphanRepository *OrphanRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:   NewUserRepository(db),
		PaperRepository:  NewPaperRepository(db),
		OrphanRepository: NewOrphanRepository(db),
	}
}
