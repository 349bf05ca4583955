package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	elasticsearch "github.com/elastic/go-elasticsearch/v8"
	"github.com/sony/gobreaker"

	"github.com/RanchesW/KazRPG/internal/logger"
	"github.com/RanchesW/KazRPG/internal/models"
)

const indexName = "kazrpg-games"

type Config struct {
	URL      string // пусто = индекс не сконфигурирован, каталог работает только по БД
	Username string
	Password string
	Timeout  time.Duration
}

// Adapter - клиент поискового индекса. Все вызовы ограничены таймаутом и
// обернуты в circuit breaker: после серии отказов запросы к индексу
// не выполняются до восстановления, и каталог живет на реляционном пути.
type Adapter struct {
	client  *elasticsearch.Client
	breaker *gobreaker.CircuitBreaker
	timeout time.Duration
}

func NewAdapter(cfg Config) (*Adapter, error) {
	a := &Adapter{timeout: cfg.Timeout}
	if a.timeout <= 0 {
		a.timeout = 3 * time.Second
	}

	a.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "elasticsearch",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("search breaker state change", "from", from.String(), "to", to.String())
		},
	})

	if cfg.URL == "" {
		return a, nil
	}

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, err
	}
	a.client = client

	return a, nil
}

// Available сообщает, сконфигурирован ли поисковый индекс вообще
func (a *Adapter) Available() bool {
	return a.client != nil
}

// EnsureIndex создает индекс с маппингом, если его еще нет.
// Ошибка здесь не фатальна для приложения - логируется и глотается.
func (a *Adapter) EnsureIndex(ctx context.Context) {
	if a.client == nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	res, err := a.client.Indices.Exists([]string{indexName}, a.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		logger.WithError(err).Warn("search index existence check failed")
		return
	}
	defer res.Body.Close()

	if res.StatusCode == 200 {
		return
	}

	createRes, err := a.client.Indices.Create(
		indexName,
		a.client.Indices.Create.WithBody(strings.NewReader(indexMapping)),
		a.client.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		logger.WithError(err).Warn("search index creation failed")
		return
	}
	defer createRes.Body.Close()

	if createRes.IsError() {
		logger.Warn("search index creation rejected", "status", createRes.StatusCode)
		return
	}

	logger.Info("search index created", "index", indexName)
}

// Index записывает документ игры в индекс
func (a *Adapter) Index(ctx context.Context, doc GameDocument) error {
	if a.client == nil {
		return nil
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	res, err := a.client.Index(
		indexName,
		bytes.NewReader(body),
		a.client.Index.WithDocumentID(doc.ID),
		a.client.Index.WithContext(ctx),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index document %s: status %d", doc.ID, res.StatusCode)
	}
	return nil
}

// Remove удаляет документ из индекса; отсутствие документа - не ошибка
func (a *Adapter) Remove(ctx context.Context, id string) error {
	if a.client == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	res, err := a.client.Delete(indexName, id, a.client.Delete.WithContext(ctx))
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("delete document %s: status %d", id, res.StatusCode)
	}
	return nil
}

// BulkIndex индексирует пачку документов (полная переиндексация каталога)
func (a *Adapter) BulkIndex(ctx context.Context, docs []GameDocument) error {
	if a.client == nil || len(docs) == 0 {
		return nil
	}

	var buf bytes.Buffer
	for _, doc := range docs {
		meta := fmt.Sprintf(`{"index":{"_index":%q,"_id":%q}}`, indexName, doc.ID)
		buf.WriteString(meta)
		buf.WriteByte('\n')
		line, err := json.Marshal(doc)
		if err != nil {
			return err
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	res, err := a.client.Bulk(bytes.NewReader(buf.Bytes()), a.client.Bulk.WithContext(ctx))
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("bulk index: status %d", res.StatusCode)
	}
	return nil
}

// Search выполняет ранжированный запрос. Любая ошибка (нет клиента, таймаут,
// разорванное соединение, ошибка выполнения, открытый breaker) превращается
// в Outcome{Unavailable} - наружу ошибка не поднимается никогда.
func (a *Adapter) Search(ctx context.Context, filter models.GameFilter) Outcome {
	if a.client == nil {
		return unavailable("search index not configured")
	}

	start := time.Now()
	value, err := a.breaker.Execute(func() (interface{}, error) {
		return a.doSearch(ctx, filter)
	})
	logger.SearchLog("search", time.Since(start), err)

	if err != nil {
		return unavailable(err.Error())
	}
	return ok(value.(*Result))
}

func (a *Adapter) doSearch(ctx context.Context, filter models.GameFilter) (*Result, error) {
	body, err := json.Marshal(buildSearchBody(filter, a.nowUTC()))
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	res, err := a.client.Search(
		a.client.Search.WithContext(ctx),
		a.client.Search.WithIndex(indexName),
		a.client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search: status %d", res.StatusCode)
	}

	var parsed struct {
		Hits struct {
			Total struct {
				Value int `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source GameDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	result := &Result{Total: parsed.Hits.Total.Value}
	for _, hit := range parsed.Hits.Hits {
		result.Documents = append(result.Documents, hit.Source)
	}
	return result, nil
}

// Suggest возвращает до limit вариантов автодополнения по префиксу названия.
// Пустой префикс дает пустой результат, не ошибку.
func (a *Adapter) Suggest(ctx context.Context, prefix string, limit int) []string {
	if a.client == nil || prefix == "" {
		return []string{}
	}

	value, err := a.breaker.Execute(func() (interface{}, error) {
		return a.doSuggest(ctx, prefix, limit)
	})
	if err != nil {
		logger.WithError(err).Warn("search suggestions failed", "prefix", prefix)
		return []string{}
	}
	return value.([]string)
}

func (a *Adapter) doSuggest(ctx context.Context, prefix string, limit int) ([]string, error) {
	body, err := json.Marshal(map[string]interface{}{
		"suggest": map[string]interface{}{
			"game_suggest": map[string]interface{}{
				"prefix": prefix,
				"completion": map[string]interface{}{
					"field": "title.suggest",
					"size":  limit,
				},
			},
		},
	})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	res, err := a.client.Search(
		a.client.Search.WithContext(ctx),
		a.client.Search.WithIndex(indexName),
		a.client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("suggest: status %d", res.StatusCode)
	}

	var parsed struct {
		Suggest map[string][]struct {
			Options []struct {
				Text string `json:"text"`
			} `json:"options"`
		} `json:"suggest"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	suggestions := []string{}
	for _, entry := range parsed.Suggest["game_suggest"] {
		for _, opt := range entry.Options {
			suggestions = append(suggestions, opt.Text)
		}
	}
	return suggestions, nil
}

// HealthCheck возвращает статус кластера для /health
func (a *Adapter) HealthCheck(ctx context.Context) map[string]interface{} {
	if a.client == nil {
		return map[string]interface{}{"status": "disabled"}
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	res, err := a.client.Cluster.Health(a.client.Cluster.Health.WithContext(ctx))
	if err != nil {
		return map[string]interface{}{"status": "error", "message": err.Error()}
	}
	defer res.Body.Close()

	var health map[string]interface{}
	if err := json.NewDecoder(res.Body).Decode(&health); err != nil {
		return map[string]interface{}{"status": "error", "message": err.Error()}
	}

	return map[string]interface{}{
		"status":  "healthy",
		"cluster": health["status"],
	}
}

func (a *Adapter) nowUTC() time.Time {
	return time.Now().UTC()
}
