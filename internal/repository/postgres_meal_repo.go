package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/hitoshi/dailydiet/internal/model"
)

// highestInDietSequenceQuery は連続区間（gaps and islands）の最長値を求める。
// 全体の行番号とフラグ別の行番号の差が同じ行は、同じフラグの連続区間に属する。
const highestInDietSequenceQuery = `
SELECT COALESCE(MAX(runs.total), 0)
FROM (
	SELECT grouped.is_inside_diet, COUNT(*) AS total
	FROM (
		SELECT is_inside_diet,
		       ROW_NUMBER() OVER (ORDER BY created_at)
		     - ROW_NUMBER() OVER (PARTITION BY is_inside_diet ORDER BY created_at) AS grp
		FROM meals
		WHERE fk_user_id = $1
	) grouped
	GROUP BY grouped.grp, grouped.is_inside_diet
) runs
WHERE runs.is_inside_diet`

// PostgresMealRepo はPostgreSQLを使用した食事リポジトリ。
type PostgresMealRepo struct {
	db *sql.DB
}

// NewPostgresMealRepo はPostgresMealRepoを生成する。
func NewPostgresMealRepo(db *sql.DB) *PostgresMealRepo {
	return &PostgresMealRepo{db: db}
}

// Create は食事を作成する。
func (r *PostgresMealRepo) Create(ctx context.Context, meal *model.Meal) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO meals (id, name, description, time, is_inside_diet, fk_user_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		meal.ID, meal.Name, meal.Description, meal.Time, meal.IsInsideDiet, meal.UserID, meal.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert meal: %w", err)
	}
	return nil
}

// UpdateByIDAndUser は指定IDかつ所有ユーザーが一致する食事を更新する。
// 該当行がない場合も影響行数0としてエラーにはしない。
func (r *PostgresMealRepo) UpdateByIDAndUser(ctx context.Context, id, userID string, fields model.MealFields, updatedAt time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE meals
		 SET name = $1, description = $2, time = $3, is_inside_diet = $4, updated_at = $5
		 WHERE id = $6 AND fk_user_id = $7`,
		fields.Name, fields.Description, fields.Time, fields.IsInsideDiet, updatedAt, id, userID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to update meal: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected, nil
}

// FindByIDAndUser は指定IDかつ所有ユーザーが一致する食事を取得する。見つからない場合はnilを返す。
func (r *PostgresMealRepo) FindByIDAndUser(ctx context.Context, id, userID string) (*model.Meal, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, description, time, is_inside_diet, fk_user_id, created_at, updated_at
		 FROM meals
		 WHERE id = $1 AND fk_user_id = $2`,
		id, userID,
	)

	meal, err := scanMeal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find meal: %w", err)
	}
	return meal, nil
}

// DeleteByIDAndUser は指定IDかつ所有ユーザーが一致する食事を削除する。
func (r *PostgresMealRepo) DeleteByIDAndUser(ctx context.Context, id, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM meals WHERE id = $1 AND fk_user_id = $2`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete meal: %w", err)
	}
	return nil
}

// ListByUserID はユーザーの食事一覧を返す。ORDER BYは指定しない。
func (r *PostgresMealRepo) ListByUserID(ctx context.Context, userID string) ([]*model.Meal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description, time, is_inside_diet, fk_user_id, created_at, updated_at
		 FROM meals
		 WHERE fk_user_id = $1`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list meals: %w", err)
	}
	defer rows.Close()

	meals := make([]*model.Meal, 0)
	for rows.Next() {
		meal, err := scanMeal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan meal: %w", err)
		}
		meals = append(meals, meal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate meals: %w", err)
	}

	return meals, nil
}

// CountByUserID はユーザーの食事数を返す。
func (r *PostgresMealRepo) CountByUserID(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(id) FROM meals WHERE fk_user_id = $1`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count meals: %w", err)
	}
	return count, nil
}

// CountInDietByUserID はユーザーのダイエット内の食事数を返す。
func (r *PostgresMealRepo) CountInDietByUserID(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(id) FROM meals WHERE fk_user_id = $1 AND is_inside_diet = true`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count in-diet meals: %w", err)
	}
	return count, nil
}

// HighestInDietSequence はダイエット内の食事の最長連続数を返す。
func (r *PostgresMealRepo) HighestInDietSequence(ctx context.Context, userID string) (int, error) {
	var highest int
	if err := r.db.QueryRowContext(ctx, highestInDietSequenceQuery, userID).Scan(&highest); err != nil {
		return 0, fmt.Errorf("failed to compute highest in-diet sequence: %w", err)
	}
	return highest, nil
}

// rowScanner は*sql.Rowと*sql.Rowsの共通インターフェース。
type rowScanner interface {
	Scan(dest ...any) error
}

// scanMeal は1行分の食事カラムをmodel.Mealに読み込む。
func scanMeal(s rowScanner) (*model.Meal, error) {
	meal := &model.Meal{}
	var updatedAt sql.NullTime
	err := s.Scan(
		&meal.ID, &meal.Name, &meal.Description, &meal.Time,
		&meal.IsInsideDiet, &meal.UserID, &meal.CreatedAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	if updatedAt.Valid {
		t := updatedAt.Time
		meal.UpdatedAt = &t
	}
	return meal, nil
}

// compile-time interface check
var _ MealRepository = (*PostgresMealRepo)(nil)
