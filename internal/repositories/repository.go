package repositories

import (
	"context"
	"fmt"
	"strings"

	"geraetewart/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// listSpec - белые списки фильтров, поиска и сортировки одной таблицы.
type listSpec struct {
	filters     map[string]string
	search      []string
	sort        map[string]string
	defaultSort string
}

// applyFilter добавляет WHERE по белому списку и поиск ILIKE.
func (s listSpec) applyFilter(b sq.SelectBuilder, filter types.Filter) sq.SelectBuilder {
	for key, val := range filter.Filter {
		col, ok := s.filters[key]
		if !ok {
			continue
		}
		if str, isStr := val.(string); isStr && strings.Contains(str, ",") {
			parts := strings.Split(str, ",")
			b = b.Where(sq.Eq{col: parts})
			continue
		}
		b = b.Where(sq.Eq{col: val})
	}

	if filter.Search != "" && len(s.search) > 0 {
		pattern := "%" + filter.Search + "%"
		or := sq.Or{}
		for _, col := range s.search {
			or = append(or, sq.ILike{col: pattern})
		}
		b = b.Where(or)
	}
	return b
}

func (s listSpec) applyPage(b sq.SelectBuilder, filter types.Filter) sq.SelectBuilder {
	applied := false
	for key, dir := range filter.Sort {
		if col, ok := s.sort[key]; ok {
			b = b.OrderBy(fmt.Sprintf("%s %s", col, strings.ToUpper(dir)))
			applied = true
		}
	}
	if !applied && s.defaultSort != "" {
		b = b.OrderBy(s.defaultSort)
	}
	if filter.WithPagination && filter.Limit > 0 {
		b = b.Limit(uint64(filter.Limit)).Offset(uint64(filter.Offset))
	}
	return b
}

// selectFn строит SELECT с нужными колонками поверх общих JOIN.
type selectFn func(columns string) sq.SelectBuilder

// list выполняет COUNT и выборку страницы с одними и теми же условиями.
func (s listSpec) list(ctx context.Context, q Querier, base selectFn, columns string, filter types.Filter) (pgx.Rows, uint64, error) {
	countQuery, countArgs, err := s.applyFilter(base("COUNT(*)"), filter).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки COUNT: %w", err)
	}
	var total uint64
	if err := q.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчёта: %w", err)
	}
	if total == 0 {
		return nil, 0, nil
	}

	query, args, err := s.applyPage(s.applyFilter(base(columns), filter), filter).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки SELECT: %w", err)
	}
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка выборки: %w", err)
	}
	return rows, total, nil
}

// collect сканирует все строки функцией scan и закрывает rows.
func collect[T any](rows pgx.Rows, scan func(row pgx.Row) (*T, error)) ([]*T, error) {
	if rows == nil {
		return []*T{}, nil
	}
	defer rows.Close()
	out := make([]*T, 0)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}
