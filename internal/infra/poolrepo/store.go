package poolrepo

import "github.com/AlexHuggler/LCI-tracker/internal/domain/pool"

// Store is a backend that holds pools, their history and the truck inventory.
type Store interface {
	pool.Repository
	pool.InventoryRepository
}
