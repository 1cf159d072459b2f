package pokeapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/BenjaminMehrez/ChallengeWithYari/internal/domain/entity"
)

// CatalogMax is the highest catalog id PokeAPI currently serves.
const CatalogMax = 1025

var (
	ErrInvalidID   = errors.New("pokemon id must be between 1 and 1025")
	ErrNotFound    = errors.New("pokemon not found")
	ErrTimeout     = errors.New("pokeapi request timed out")
	ErrUnavailable = errors.New("could not connect to pokeapi")
)

// Client fetches (id, name) pairs from the PokeAPI catalog. It keeps no
// state between calls and is safe for concurrent use. It never retries;
// failures map to exactly one of ErrNotFound, ErrTimeout or ErrUnavailable.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 5,
				MaxConnsPerHost:     10,
			},
		},
	}
}

// GetByID fetches a catalog entry by id. Ids outside 1..CatalogMax fail
// with ErrInvalidID before any network call.
func (c *Client) GetByID(ctx context.Context, id int) (entity.PokemonRef, error) {
	if id < 1 || id > CatalogMax {
		return entity.PokemonRef{}, ErrInvalidID
	}
	return c.fetch(ctx, strconv.Itoa(id))
}

// GetByName fetches a catalog entry by name, lowercased before lookup.
func (c *Client) GetByName(ctx context.Context, name string) (entity.PokemonRef, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return entity.PokemonRef{}, ErrNotFound
	}
	return c.fetch(ctx, name)
}

func (c *Client) fetch(ctx context.Context, key string) (entity.PokemonRef, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/pokemon/"+key, nil)
	if err != nil {
		return entity.PokemonRef{}, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		if isTimeout(err) {
			return entity.PokemonRef{}, fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return entity.PokemonRef{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	// Non-2xx statuses other than 404 are also reported as not found.
	if resp.StatusCode == http.StatusNotFound {
		return entity.PokemonRef{}, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if resp.StatusCode != http.StatusOK {
		return entity.PokemonRef{}, fmt.Errorf("%w: %s (status %d)", ErrNotFound, key, resp.StatusCode)
	}

	// The catalog payload is large; only id and name are kept.
	var body struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return entity.PokemonRef{}, fmt.Errorf("%w: decode: %v", ErrUnavailable, err)
	}
	return entity.PokemonRef{ID: body.ID, Name: body.Name}, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
