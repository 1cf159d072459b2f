package application

import (
	"context"
	"fmt"

	"github.com/BenjaminMehrez/ChallengeWithYari/internal/domain/entity"
	"github.com/sirupsen/logrus"
)

// Collection mutation logic. Every operation is a single
// load -> validate -> mutate -> save pass over one user row; mutations
// always build a fresh slice and hand the whole user back to the store's
// full-overwrite Update. Two requests racing on the same user are not
// coordinated: the last save wins and silently discards the other.

// ListPokemons returns the user's current collection.
func (s *Service) ListPokemons(ctx context.Context, userID string) ([]entity.PokemonRef, error) {
	u, err := s.loadUser(userID)
	if err != nil {
		return nil, err
	}
	return u.Pokemons, nil
}

// AddPokemon resolves pokemonID against the catalog and appends it to the
// user's collection. Any catalog failure surfaces as ErrPokemonNotFound;
// the distinct cause stays wrapped in the chain.
func (s *Service) AddPokemon(ctx context.Context, userID string, pokemonID int) (*entity.User, error) {
	u, err := s.loadUser(userID)
	if err != nil {
		return nil, err
	}

	ref, err := s.Catalog.GetByID(ctx, pokemonID)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithFields(logrus.Fields{
				"user_id":    userID,
				"pokemon_id": pokemonID,
			}).Debug("catalog lookup failed")
		}
		return nil, fmt.Errorf("%w: %w", ErrPokemonNotFound, err)
	}

	if u.HasPokemon(pokemonID) {
		return nil, ErrPokemonDuplicate
	}

	// Append into a new slice; the loaded collection is never mutated in
	// place. Insertion order is preserved, no sorting.
	pokemons := make([]entity.PokemonRef, 0, len(u.Pokemons)+1)
	pokemons = append(pokemons, u.Pokemons...)
	pokemons = append(pokemons, ref)
	u.Pokemons = pokemons

	if err := s.Repo.Update(u); err != nil {
		return nil, err
	}
	return u, nil
}

// RemovePokemon drops every entry with the given catalog id. Removing an
// id that is not in the collection is an error, not a no-op.
func (s *Service) RemovePokemon(ctx context.Context, userID string, pokemonID int) (*entity.User, error) {
	u, err := s.loadUser(userID)
	if err != nil {
		return nil, err
	}

	pokemons := make([]entity.PokemonRef, 0, len(u.Pokemons))
	for _, p := range u.Pokemons {
		if p.ID != pokemonID {
			pokemons = append(pokemons, p)
		}
	}
	if len(pokemons) == len(u.Pokemons) {
		return nil, fmt.Errorf("%w: id %d not in collection", ErrPokemonNotFound, pokemonID)
	}
	u.Pokemons = pokemons

	if err := s.Repo.Update(u); err != nil {
		return nil, err
	}
	return u, nil
}

// ReplacePokemons overwrites the whole collection with the supplied list
// verbatim. Unlike the add path, entries are caller-trusted and never
// validated against the catalog; only within-list id uniqueness is
// enforced, before any mutation.
func (s *Service) ReplacePokemons(ctx context.Context, userID string, pokemons []entity.PokemonRef) (*entity.User, error) {
	u, err := s.loadUser(userID)
	if err != nil {
		return nil, err
	}

	seen := make(map[int]struct{}, len(pokemons))
	for _, p := range pokemons {
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %d in list", ErrPokemonDuplicate, p.ID)
		}
		seen[p.ID] = struct{}{}
	}

	replacement := make([]entity.PokemonRef, len(pokemons))
	copy(replacement, pokemons)
	u.Pokemons = replacement

	if err := s.Repo.Update(u); err != nil {
		return nil, err
	}
	return u, nil
}
