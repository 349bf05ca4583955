package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RanchesW/KazRPG/internal/logger"
	"github.com/RanchesW/KazRPG/internal/models"
)

func init() {
	logger.Init("test")
}

// fakeES поднимает httptest-сервер, прикидывающийся Elasticsearch
// (клиент v8 проверяет заголовок X-Elastic-Product)
func fakeES(t *testing.T, handler http.HandlerFunc) *Adapter {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	adapter, err := NewAdapter(Config{URL: srv.URL, Timeout: 2 * time.Second})
	require.NoError(t, err)
	return adapter
}

func TestAdapter_NotConfigured(t *testing.T) {
	adapter, err := NewAdapter(Config{})
	require.NoError(t, err)

	assert.False(t, adapter.Available())

	outcome := adapter.Search(context.Background(), models.GameFilter{Page: 1, Limit: 12})
	assert.True(t, outcome.Unavailable)
	assert.Nil(t, outcome.Result)

	assert.Empty(t, adapter.Suggest(context.Background(), "dnd", 5))
	assert.NoError(t, adapter.Index(context.Background(), GameDocument{ID: "x"}))
	assert.NoError(t, adapter.Remove(context.Background(), "x"))
}

func TestAdapter_SearchParsesHits(t *testing.T) {
	adapter := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/kazrpg-games/_search", r.URL.Path)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Contains(t, body, "query")
		assert.Contains(t, body, "sort")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"hits": {
				"total": {"value": 2},
				"hits": [
					{"_source": {"id": "g1", "title": "Проклятье Страда", "gm_username": "master1"}},
					{"_source": {"id": "g2", "title": "Шахты Фанделвера", "gm_username": "master2"}}
				]
			}
		}`))
	})

	filter := models.GameFilter{Query: "страд"}
	filter.Normalize()

	outcome := adapter.Search(context.Background(), filter)
	require.False(t, outcome.Unavailable, "reason: %s", outcome.Reason)
	require.NotNil(t, outcome.Result)
	assert.Equal(t, 2, outcome.Result.Total)
	require.Len(t, outcome.Result.Documents, 2)
	assert.Equal(t, "g1", outcome.Result.Documents[0].ID)
	assert.Equal(t, "master2", outcome.Result.Documents[1].GMUsername)
}

func TestAdapter_SearchErrorBecomesUnavailable(t *testing.T) {
	adapter := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	filter := models.GameFilter{}
	filter.Normalize()

	outcome := adapter.Search(context.Background(), filter)
	assert.True(t, outcome.Unavailable, "ошибка индекса не поднимается наружу, а дает Unavailable")
	assert.NotEmpty(t, outcome.Reason)
}

func TestAdapter_TransportFailureBecomesUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
	}))
	adapter, err := NewAdapter(Config{URL: srv.URL, Timeout: time.Second})
	require.NoError(t, err)
	srv.Close() // соединение будет отклонено

	filter := models.GameFilter{}
	filter.Normalize()

	outcome := adapter.Search(context.Background(), filter)
	assert.True(t, outcome.Unavailable)
}

func TestAdapter_SuggestEmptyPrefix(t *testing.T) {
	adapter := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("пустой префикс не должен ходить в индекс")
	})

	assert.Empty(t, adapter.Suggest(context.Background(), "", 5))
}

func TestAdapter_SuggestParsesOptions(t *testing.T) {
	adapter := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		suggest := body["suggest"].(map[string]interface{})["game_suggest"].(map[string]interface{})
		assert.Equal(t, "про", suggest["prefix"])
		completion := suggest["completion"].(map[string]interface{})
		assert.Equal(t, "title.suggest", completion["field"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"suggest": {
				"game_suggest": [
					{"options": [
						{"text": "Проклятье Страда"},
						{"text": "Проклятый лес"}
					]}
				]
			}
		}`))
	})

	got := adapter.Suggest(context.Background(), "про", 5)
	assert.Equal(t, []string{"Проклятье Страда", "Проклятый лес"}, got)
}

func TestAdapter_IndexSendsDocument(t *testing.T) {
	var gotPath string
	adapter := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"result": "created"}`))
	})

	doc := GameDocument{ID: "g1", Title: "Проклятье Страда", Tags: []string{}}
	require.NoError(t, adapter.Index(context.Background(), doc))
	assert.Equal(t, "/kazrpg-games/_doc/g1", gotPath)
}

func TestAdapter_RemoveIgnores404(t *testing.T) {
	adapter := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	assert.NoError(t, adapter.Remove(context.Background(), "missing"), "отсутствие документа - не ошибка")
}
