package entity

import (
	"time"
)

// User is the aggregate root for the user domain.
// Passwords are stored as bcrypt hashes in Password.
//
// Pokemons is a denormalized cache of catalog (id, name) pairs owned
// exclusively by this user; it is only ever replaced as a whole on save.
type User struct {
	ID          string
	Email       string
	Username    string
	Password    string
	Pokemons    []PokemonRef
	IsActive    bool
	IsSuperuser bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PokemonRef is the (id, name) projection of a catalog entry. It has no
// lifecycle of its own: created, replaced or removed only as part of a
// User mutation.
type PokemonRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// HasPokemon reports whether the collection already contains the given
// catalog id. Duplicate detection is keyed on id only, never on name.
func (u *User) HasPokemon(id int) bool {
	for _, p := range u.Pokemons {
		if p.ID == id {
			return true
		}
	}
	return false
}
