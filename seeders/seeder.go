package seeders

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// SeedDictionaries наполняет категории и места хранения. Повторный запуск ничего не дублирует.
func SeedDictionaries(ctx context.Context, db *pgxpool.Pool, logger *zap.Logger) error {
	logger.Info("Наполнение справочников")
	for _, table := range []struct {
		name string
		rows []string
	}{
		{"categories", categoriesData},
		{"locations", locationsData},
	} {
		query := fmt.Sprintf("INSERT INTO %s (name) VALUES ($1) ON CONFLICT (name) DO NOTHING", table.name)
		for _, name := range table.rows {
			if _, err := db.Exec(ctx, query, name); err != nil {
				return fmt.Errorf("%s %q: %w", table.name, name, err)
			}
		}
	}
	return nil
}

// SeedDemo - люди, инвентарь и шаблоны для локальной разработки. Всё в одной транзакции.
func SeedDemo(ctx context.Context, db *pgxpool.Pool, logger *zap.Logger) error {
	logger.Info("Наполнение демо-данных")

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	persons := make(map[string]uint64)
	for _, p := range personsData {
		var id uint64
		err := tx.QueryRow(ctx,
			`INSERT INTO persons (first_name, last_name, email, role) VALUES ($1, $2, NULLIF($3, ''), $4) RETURNING id`,
			p.FirstName, p.LastName, p.Email, p.Role,
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("person %s %s: %w", p.FirstName, p.LastName, err)
		}
		if p.Email != "" {
			persons[p.Email] = id
		}
	}

	categories, err := idsByName(ctx, tx, "categories")
	if err != nil {
		return err
	}
	locations, err := idsByName(ctx, tx, "locations")
	if err != nil {
		return err
	}

	equipmentByCategory := make(map[string][]uint64)
	for _, e := range equipmentData {
		var id uint64
		err := tx.QueryRow(ctx,
			`INSERT INTO equipment (inventory_number, barcode, name, category_id, location_id, responsible_person_id, manufacturer)
			 VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''))
			 ON CONFLICT (inventory_number) DO UPDATE SET name = EXCLUDED.name
			 RETURNING id`,
			e.InventoryNumber, e.Barcode, e.Name,
			optionalID(categories, e.Category), optionalID(locations, e.Location), optionalID(persons, e.Responsible),
			e.Manufacturer,
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("equipment %s: %w", e.InventoryNumber, err)
		}
		equipmentByCategory[e.Category] = append(equipmentByCategory[e.Category], id)
	}

	for _, t := range templatesData {
		var id uint64
		err := tx.QueryRow(ctx,
			`INSERT INTO maintenance_templates (name, interval_months, category_id, responsible_person_id, estimated_minutes)
			 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
			t.Name, t.IntervalMonths, optionalID(categories, t.Category), optionalID(persons, t.Responsible), t.Minutes,
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("template %s: %w", t.Name, err)
		}
		items := equipmentByCategory[t.Category]
		if t.Category == "" {
			for _, ids := range equipmentByCategory {
				items = append(items, ids...)
			}
		}
		for _, equipmentID := range items {
			if _, err := tx.Exec(ctx,
				`INSERT INTO template_equipment (template_id, equipment_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
				id, equipmentID,
			); err != nil {
				return fmt.Errorf("template %s item %d: %w", t.Name, equipmentID, err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	logger.Info("Демо-данные созданы",
		zap.Int("persons", len(personsData)),
		zap.Int("equipment", len(equipmentData)),
		zap.Int("templates", len(templatesData)),
	)
	return nil
}

func idsByName(ctx context.Context, tx pgx.Tx, table string) (map[string]uint64, error) {
	rows, err := tx.Query(ctx, fmt.Sprintf("SELECT id, name FROM %s", table))
	if err != nil {
		return nil, fmt.Errorf("ошибка получения ID из %s: %w", table, err)
	}
	defer rows.Close()

	out := make(map[string]uint64)
	for rows.Next() {
		var id uint64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		out[name] = id
	}
	return out, rows.Err()
}

func optionalID(ids map[string]uint64, key string) *uint64 {
	if id, ok := ids[key]; ok {
		return &id
	}
	return nil
}
