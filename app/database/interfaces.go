package database

// NewsRepository is the persistence boundary for news records. Create
// assigns the ID and timestamps; Update merges a partial patch and always
// refreshes the update timestamp.
type NewsRepository interface {
	Create(record Record) (*Record, error)
	Get(id string) (*Record, error)
	List(opts ListOptions) ([]Record, error)
	Update(id string, patch Patch) (*Record, error)
	Delete(id string) error

	TopScored(minScore float64, limit int) ([]Record, error)
	ListUnscored(limit int) ([]Record, error)
	GetStats() (*Stats, error)
}
