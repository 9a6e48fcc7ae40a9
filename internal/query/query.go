// query строит план выборки list-эндпойнтов из плоских query-параметров запроса.
//
// Управляющие ключи (`page`, `sort`, `limit`, `fields`) исключаются из фильтра
// и интерпретируются как директивы пагинации/сортировки/проекции; всё остальное
// становится предикатом фильтра. Операторы сравнения задаются скобочной формой:
// price[gte]=100, duration[lt]=10.
package query

import (
	"net/url"
	"strconv"
	"strings"
)

// Op — оператор сравнения условия фильтра.
type Op string

const (
	OpEq  Op = "eq"
	OpGt  Op = "gt"
	OpGte Op = "gte"
	OpLt  Op = "lt"
	OpLte Op = "lte"
)

// Зарезервированные управляющие ключи запроса.
const (
	keyPage   = "page"
	keySort   = "sort"
	keyLimit  = "limit"
	keyFields = "fields"
)

// Condition — одно условие фильтра по полю.
type Condition struct {
	Op    Op
	Value any
}

// SortField — поле сортировки с направлением.
type SortField struct {
	Field string
	Desc  bool
}

// Plan — неизменяемый план одной list-выборки: фильтр, порядок, проекция,
// пагинация. Строится один раз на запрос и сразу потребляется хранилищем.
type Plan struct {
	Filter map[string][]Condition
	Sort   []SortField
	Fields []string
	Page   int64
	Limit  int64
	Skip   int64
}

// Limits — границы размера страницы (из конфигурации сервиса).
type Limits struct {
	Default int64
	Max     int64
}

// Parse разбирает query-параметры в Plan.
//
// Контракт:
//   - page < 1 или нечисловой -> 1; limit отсутствует/нечисловой -> Default,
//     сверху ограничивается Max; skip = (page-1)*limit;
//   - sort: список полей через запятую, ведущий '-' — по убыванию;
//     по умолчанию -created_at (детерминированный порядок пагинации);
//   - fields: список имён через запятую — inclusion-проекция;
//   - прочие ключи — условия фильтра; форма field[op] с op из
//     {gt,gte,lt,lte} даёт сравнение, иначе равенство. Неизвестный op
//     не распознаётся: ключ уходит в фильтр как есть и запрос
//     закономерно не матчится на уровне хранилища.
func Parse(values url.Values, limits Limits) *Plan {
	p := &Plan{
		Filter: make(map[string][]Condition),
		Page:   1,
		Limit:  limits.Default,
	}

	for key, raw := range values {
		switch key {
		case keyPage:
			if n, err := strconv.ParseInt(first(raw), 10, 64); err == nil && n >= 1 {
				p.Page = n
			}
		case keySort:
			p.Sort = parseSort(first(raw))
		case keyLimit:
			if n, err := strconv.ParseInt(first(raw), 10, 64); err == nil && n >= 1 {
				p.Limit = n
			}
		case keyFields:
			p.Fields = splitList(first(raw))
		default:
			field, op := parseFilterKey(key)
			for _, v := range raw {
				p.Filter[field] = append(p.Filter[field], Condition{
					Op:    op,
					Value: coerce(v),
				})
			}
		}
	}

	if limits.Max > 0 && p.Limit > limits.Max {
		p.Limit = limits.Max
	}

	if len(p.Sort) == 0 {
		p.Sort = []SortField{{Field: "created_at", Desc: true}}
	}

	p.Skip = (p.Page - 1) * p.Limit

	return p
}

// parseFilterKey выделяет из ключа форму field[op].
// Нераспознанный оператор оставляет ключ как есть (равенство по литералу).
func parseFilterKey(key string) (string, Op) {
	open := strings.IndexByte(key, '[')
	if open <= 0 || !strings.HasSuffix(key, "]") {
		return key, OpEq
	}

	field := key[:open]
	token := key[open+1 : len(key)-1]

	switch token {
	case "gt":
		return field, OpGt
	case "gte":
		return field, OpGte
	case "lt":
		return field, OpLt
	case "lte":
		return field, OpLte
	default:
		return key, OpEq
	}
}

// parseSort разбирает "-price,name" в упорядоченный список полей.
func parseSort(raw string) []SortField {
	var out []SortField
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" || part == "-" {
			continue
		}

		if strings.HasPrefix(part, "-") {
			out = append(out, SortField{Field: part[1:], Desc: true})
			continue
		}

		out = append(out, SortField{Field: part})
	}

	return out
}

// coerce переводит числовые на вид значения в float64, чтобы сравнения
// в хранилище работали по числам, а не лексикографически.
func coerce(v string) any {
	if v == "" {
		return v
	}

	if n, err := strconv.ParseFloat(v, 64); err == nil {
		return n
	}

	if v == "true" {
		return true
	}

	if v == "false" {
		return false
	}

	return v
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}

	return out
}

func first(raw []string) string {
	if len(raw) == 0 {
		return ""
	}

	return raw[0]
}
