package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BenjaminMehrez/ChallengeWithYari/internal/domain/entity"
	"github.com/BenjaminMehrez/ChallengeWithYari/internal/infrastructure/pokeapi"
)

func collectionFixture(t *testing.T) (*Service, *fakeRepo, *fakeCatalog, *entity.User) {
	t.Helper()
	r := newFakeRepo()
	c := newFakeCatalog(
		entity.PokemonRef{ID: 1, Name: "bulbasaur"},
		entity.PokemonRef{ID: 25, Name: "pikachu"},
		entity.PokemonRef{ID: 132, Name: "ditto"},
	)
	svc := newTestService(t, r, c)
	u := registerUser(t, svc, "ash@example.com", "ash")
	return svc, r, c, u
}

func TestAddPokemon(t *testing.T) {
	svc, _, _, u := collectionFixture(t)

	got, err := svc.AddPokemon(context.Background(), u.ID, 25)
	require.NoError(t, err)
	require.Len(t, got.Pokemons, 1)
	assert.Equal(t, entity.PokemonRef{ID: 25, Name: "pikachu"}, got.Pokemons[0])

	// Persisted, not just returned.
	list, err := svc.ListPokemons(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, got.Pokemons, list)
}

func TestAddPokemonPreservesOrder(t *testing.T) {
	svc, _, _, u := collectionFixture(t)

	for _, id := range []int{132, 1, 25} {
		_, err := svc.AddPokemon(context.Background(), u.ID, id)
		require.NoError(t, err)
	}

	list, err := svc.ListPokemons(context.Background(), u.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []int{132, 1, 25}, []int{list[0].ID, list[1].ID, list[2].ID})
}

func TestAddPokemonDuplicate(t *testing.T) {
	svc, _, _, u := collectionFixture(t)

	_, err := svc.AddPokemon(context.Background(), u.ID, 25)
	require.NoError(t, err)

	_, err = svc.AddPokemon(context.Background(), u.ID, 25)
	assert.ErrorIs(t, err, ErrPokemonDuplicate)

	list, err := svc.ListPokemons(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1, "failed add must not change the collection")
}

func TestAddPokemonCatalogFailure(t *testing.T) {
	svc, _, c, u := collectionFixture(t)
	c.err = pokeapi.ErrTimeout

	_, err := svc.AddPokemon(context.Background(), u.ID, 25)
	assert.ErrorIs(t, err, ErrPokemonNotFound)
	assert.ErrorIs(t, err, pokeapi.ErrTimeout, "the distinct cause stays in the chain")

	list, lerr := svc.ListPokemons(context.Background(), u.ID)
	require.NoError(t, lerr)
	assert.Empty(t, list)
}

func TestAddPokemonUnknownID(t *testing.T) {
	svc, _, _, u := collectionFixture(t)

	_, err := svc.AddPokemon(context.Background(), u.ID, 9999)
	assert.ErrorIs(t, err, ErrPokemonNotFound)
}

func TestAddPokemonUnknownUserSkipsCatalog(t *testing.T) {
	svc, _, c, _ := collectionFixture(t)

	_, err := svc.AddPokemon(context.Background(), "missing", 25)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Zero(t, c.calls, "user lookup failure must not hit the catalog")
}

func TestRemovePokemon(t *testing.T) {
	svc, _, _, u := collectionFixture(t)
	_, err := svc.AddPokemon(context.Background(), u.ID, 25)
	require.NoError(t, err)
	_, err = svc.AddPokemon(context.Background(), u.ID, 1)
	require.NoError(t, err)

	got, err := svc.RemovePokemon(context.Background(), u.ID, 25)
	require.NoError(t, err)
	require.Len(t, got.Pokemons, 1)
	assert.Equal(t, 1, got.Pokemons[0].ID)
}

func TestRemovePokemonAbsent(t *testing.T) {
	svc, _, _, u := collectionFixture(t)
	_, err := svc.AddPokemon(context.Background(), u.ID, 1)
	require.NoError(t, err)

	_, err = svc.RemovePokemon(context.Background(), u.ID, 25)
	assert.ErrorIs(t, err, ErrPokemonNotFound)

	list, lerr := svc.ListPokemons(context.Background(), u.ID)
	require.NoError(t, lerr)
	assert.Len(t, list, 1, "failed remove must not change the collection")
}

func TestReplacePokemons(t *testing.T) {
	svc, _, _, u := collectionFixture(t)
	_, err := svc.AddPokemon(context.Background(), u.ID, 25)
	require.NoError(t, err)

	// Entries are caller-trusted and stored verbatim, names included.
	replacement := []entity.PokemonRef{
		{ID: 500, Name: "whatever"},
		{ID: 1, Name: "not-bulbasaur"},
	}
	got, err := svc.ReplacePokemons(context.Background(), u.ID, replacement)
	require.NoError(t, err)
	assert.Equal(t, replacement, got.Pokemons)

	list, err := svc.ListPokemons(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, replacement, list)
}

func TestReplacePokemonsEmptyList(t *testing.T) {
	svc, _, _, u := collectionFixture(t)
	_, err := svc.AddPokemon(context.Background(), u.ID, 25)
	require.NoError(t, err)

	got, err := svc.ReplacePokemons(context.Background(), u.ID, []entity.PokemonRef{})
	require.NoError(t, err)
	assert.Empty(t, got.Pokemons)
}

func TestReplacePokemonsDuplicateInList(t *testing.T) {
	svc, _, _, u := collectionFixture(t)
	_, err := svc.AddPokemon(context.Background(), u.ID, 25)
	require.NoError(t, err)

	_, err = svc.ReplacePokemons(context.Background(), u.ID, []entity.PokemonRef{
		{ID: 7, Name: "squirtle"},
		{ID: 7, Name: "squirtle"},
	})
	assert.ErrorIs(t, err, ErrPokemonDuplicate)

	// Rejected before mutation: the old collection is intact.
	list, lerr := svc.ListPokemons(context.Background(), u.ID)
	require.NoError(t, lerr)
	require.Len(t, list, 1)
	assert.Equal(t, 25, list[0].ID)
}

func TestReplacePokemonsDoesNotAliasInput(t *testing.T) {
	svc, _, _, u := collectionFixture(t)

	input := []entity.PokemonRef{{ID: 25, Name: "pikachu"}}
	_, err := svc.ReplacePokemons(context.Background(), u.ID, input)
	require.NoError(t, err)

	input[0].Name = "mutated"
	list, err := svc.ListPokemons(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "pikachu", list[0].Name)
}

// Two writers loading the same snapshot race on the full-row save; the
// second save wins and silently discards the first.
func TestConcurrentAddsLastWriteWins(t *testing.T) {
	svc, r, _, u := collectionFixture(t)

	stored, err := r.GetByID(u.ID)
	require.NoError(t, err)
	r.stale = stored // both loads see the original empty collection

	_, err = svc.AddPokemon(context.Background(), u.ID, 25)
	require.NoError(t, err)
	_, err = svc.AddPokemon(context.Background(), u.ID, 1)
	require.NoError(t, err)

	r.stale = nil
	list, err := svc.ListPokemons(context.Background(), u.ID)
	require.NoError(t, err)
	require.Len(t, list, 1, "the first add is lost to the second save")
	assert.Equal(t, 1, list[0].ID)
}
