package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/Skotchmaster/dartz_league/internal/models"
)

const PlayersIndex = "players"

var ErrEmptyQuery = errors.New("search query is empty")

type PlayerDoc struct {
	ProfileID uint   `json:"profileId"`
	UserID    uint   `json:"userId"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	City      string `json:"city"`
	State     string `json:"state"`
}

func DocFromProfile(p *models.PlayerProfile) PlayerDoc {
	return PlayerDoc{
		ProfileID: p.ID,
		UserID:    p.UserID,
		Username:  p.Username,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		City:      p.City,
		State:     p.State,
	}
}

type Players struct {
	es    *elasticsearch.Client
	index string
}

func NewPlayers(es *elasticsearch.Client) *Players {
	return &Players{es: es, index: PlayersIndex}
}

// Index upserts doc under its profile id.
func (p *Players) Index(ctx context.Context, doc PlayerDoc) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode player: %w", err)
	}

	res, err := p.es.Index(
		p.index,
		bytes.NewReader(body),
		p.es.Index.WithContext(ctx),
		p.es.Index.WithDocumentID(strconv.FormatUint(uint64(doc.ProfileID), 10)),
	)
	if err != nil {
		return fmt.Errorf("index player: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		msg, _ := io.ReadAll(res.Body)
		return fmt.Errorf("index player: %s: %s", res.Status(), msg)
	}
	return nil
}

func (p *Players) Search(ctx context.Context, query string, from, size int) (int64, []PlayerDoc, error) {
	if query == "" {
		return 0, nil, ErrEmptyQuery
	}

	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"username^2", "firstName", "lastName", "city"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("encode query: %w", err)
	}

	res, err := p.es.Search(
		p.es.Search.WithContext(ctx),
		p.es.Search.WithIndex(p.index),
		p.es.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search players: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		msg, _ := io.ReadAll(res.Body)
		return 0, nil, fmt.Errorf("search players: %s: %s", res.Status(), msg)
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source PlayerDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("decode search response: %w", err)
	}

	docs := make([]PlayerDoc, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		docs[i] = hit.Source
	}
	return r.Hits.Total.Value, docs, nil
}
