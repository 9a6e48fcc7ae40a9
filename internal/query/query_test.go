package query

// Тесты построителя планов list-выборки (internal/query/query.go).
//
// Проверяем:
//  - разделение управляющих ключей и предикатов фильтра;
//  - скобочную форму операторов сравнения и поведение на битых токенах;
//  - сортировку (направление, default -created_at);
//  - пагинацию: дефолты, кламп limit, вычисление skip;
//  - коэрцию значений (числа/булевы/строки).

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func testLimits() Limits {
	return Limits{Default: 100, Max: 500}
}

func TestParse_Defaults(t *testing.T) {
	p := Parse(url.Values{}, testLimits())

	require.Empty(t, p.Filter)
	require.Equal(t, []SortField{{Field: "created_at", Desc: true}}, p.Sort)
	require.Empty(t, p.Fields)
	require.EqualValues(t, 1, p.Page)
	require.EqualValues(t, 100, p.Limit)
	require.EqualValues(t, 0, p.Skip)
}

func TestParse_FullExample(t *testing.T) {
	// price[gte]=100&sort=-price&page=2&limit=5
	values, err := url.ParseQuery("price[gte]=100&sort=-price&page=2&limit=5")
	require.NoError(t, err)

	p := Parse(values, testLimits())

	require.Equal(t, []Condition{{Op: OpGte, Value: float64(100)}}, p.Filter["price"])
	require.Equal(t, []SortField{{Field: "price", Desc: true}}, p.Sort)
	require.EqualValues(t, 2, p.Page)
	require.EqualValues(t, 5, p.Limit)
	require.EqualValues(t, 5, p.Skip)
}

func TestParse_Operators(t *testing.T) {
	values, err := url.ParseQuery("duration[lt]=10&duration[gt]=2&price[lte]=3000&difficulty=easy")
	require.NoError(t, err)

	p := Parse(values, testLimits())

	require.ElementsMatch(t,
		[]Condition{{Op: OpLt, Value: float64(10)}, {Op: OpGt, Value: float64(2)}},
		p.Filter["duration"],
	)
	require.Equal(t, []Condition{{Op: OpLte, Value: float64(3000)}}, p.Filter["price"])
	require.Equal(t, []Condition{{Op: OpEq, Value: "easy"}}, p.Filter["difficulty"])
}

func TestParse_MalformedOperatorStaysLiteral(t *testing.T) {
	values, err := url.ParseQuery("price[weird]=100")
	require.NoError(t, err)

	p := Parse(values, testLimits())

	// Нераспознанный оператор: ключ уходит в фильтр как есть (равенство),
	// запрос закономерно не матчится в хранилище.
	require.Equal(t, []Condition{{Op: OpEq, Value: float64(100)}}, p.Filter["price[weird]"])
	require.NotContains(t, p.Filter, "price")
}

func TestParse_Sort(t *testing.T) {
	values := url.Values{"sort": {"-price,name"}}

	p := Parse(values, testLimits())

	require.Equal(t, []SortField{
		{Field: "price", Desc: true},
		{Field: "name"},
	}, p.Sort)
}

func TestParse_Fields(t *testing.T) {
	values := url.Values{"fields": {"name,price, duration"}}

	p := Parse(values, testLimits())

	require.Equal(t, []string{"name", "price", "duration"}, p.Fields)
}

func TestParse_Pagination(t *testing.T) {
	t.Run("limit clamped to max", func(t *testing.T) {
		p := Parse(url.Values{"limit": {"100000"}}, testLimits())
		require.EqualValues(t, 500, p.Limit)
	})

	t.Run("invalid page and limit fall back to defaults", func(t *testing.T) {
		p := Parse(url.Values{"page": {"zero"}, "limit": {"-3"}}, testLimits())
		require.EqualValues(t, 1, p.Page)
		require.EqualValues(t, 100, p.Limit)
	})

	t.Run("skip", func(t *testing.T) {
		p := Parse(url.Values{"page": {"4"}, "limit": {"25"}}, testLimits())
		require.EqualValues(t, 75, p.Skip)
	})
}

func TestParse_Coerce(t *testing.T) {
	values := url.Values{
		"price":      {"499.5"},
		"secret":     {"false"},
		"difficulty": {"easy"},
		"slug":       {""},
	}

	p := Parse(values, testLimits())

	require.Equal(t, []Condition{{Op: OpEq, Value: 499.5}}, p.Filter["price"])
	require.Equal(t, []Condition{{Op: OpEq, Value: false}}, p.Filter["secret"])
	require.Equal(t, []Condition{{Op: OpEq, Value: "easy"}}, p.Filter["difficulty"])
	require.Equal(t, []Condition{{Op: OpEq, Value: ""}}, p.Filter["slug"])
}

func TestParse_MultipleEqualities(t *testing.T) {
	values := url.Values{"difficulty": {"easy", "medium"}}

	p := Parse(values, testLimits())

	require.Len(t, p.Filter["difficulty"], 2)
	for _, c := range p.Filter["difficulty"] {
		require.Equal(t, OpEq, c.Op)
	}
}
