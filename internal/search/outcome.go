package search

// Result - успешная выдача поискового индекса
type Result struct {
	Documents []GameDocument
	Total     int
}

// Outcome - явный исход запроса к индексу. Недоступность индекса - не ошибка,
// а видимая ветка: оркестратор по ней прозрачно уходит в реляционный путь.
// Каталог никогда не отдает 5xx только потому, что поисковый индекс лежит.
type Outcome struct {
	Result      *Result
	Unavailable bool
	Reason      string
}

func ok(r *Result) Outcome {
	return Outcome{Result: r}
}

func unavailable(reason string) Outcome {
	return Outcome{Unavailable: true, Reason: reason}
}
