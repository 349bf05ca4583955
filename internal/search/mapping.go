package search

// Маппинг индекса. Русский анализатор нужен для кириллических описаний,
// multilingual - для смешанных текстов (казахские названия пишут и латиницей,
// и кириллицей). title.suggest питает автодополнение.
const indexMapping = `{
  "settings": {
    "number_of_shards": 1,
    "number_of_replicas": 0,
    "analysis": {
      "analyzer": {
        "russian_analyzer": {
          "type": "custom",
          "tokenizer": "standard",
          "filter": ["lowercase", "russian_stop", "russian_stemmer"]
        },
        "multilingual_analyzer": {
          "type": "custom",
          "tokenizer": "standard",
          "filter": ["lowercase", "asciifolding"]
        }
      },
      "filter": {
        "russian_stop": {
          "type": "stop",
          "stopwords": "_russian_"
        },
        "russian_stemmer": {
          "type": "stemmer",
          "language": "russian"
        }
      }
    }
  },
  "mappings": {
    "properties": {
      "id": {"type": "keyword"},
      "title": {
        "type": "text",
        "analyzer": "multilingual_analyzer",
        "fields": {
          "keyword": {"type": "keyword"},
          "russian": {"type": "text", "analyzer": "russian_analyzer"},
          "suggest": {"type": "completion"}
        }
      },
      "description": {
        "type": "text",
        "analyzer": "multilingual_analyzer",
        "fields": {
          "russian": {"type": "text", "analyzer": "russian_analyzer"}
        }
      },
      "game_system": {"type": "keyword"},
      "difficulty": {"type": "keyword"},
      "language": {"type": "keyword"},
      "city": {"type": "keyword"},
      "is_online": {"type": "boolean"},
      "tags": {"type": "text", "analyzer": "multilingual_analyzer"},
      "price_per_session": {"type": "integer"},
      "start_date": {"type": "date"},
      "gm_id": {"type": "keyword"},
      "gm_username": {"type": "text", "analyzer": "multilingual_analyzer"},
      "gm_rating": {"type": "float"},
      "gm_is_verified": {"type": "boolean"},
      "location": {"type": "geo_point"},
      "created_at": {"type": "date"},
      "updated_at": {"type": "date"}
    }
  }
}`
