// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"time"

	"github.com/hitoshi/dailydiet/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// Create はユーザーを作成する。名前の重複は許容する。
	Create(ctx context.Context, user *model.User) error

	// FindByCredentials は名前とパスワードが完全一致するユーザーを取得する。
	// 見つからない場合はnilを返す。
	FindByCredentials(ctx context.Context, name, password string) (*model.User, error)
}

// MealRepository は食事データの永続化インターフェース。
// 全ての操作は所有ユーザーIDで絞り込む。
type MealRepository interface {
	// Create は食事を作成する。updated_atは設定しない。
	Create(ctx context.Context, meal *model.Meal) error

	// UpdateByIDAndUser は指定IDかつ所有ユーザーが一致する食事を更新し、影響行数を返す。
	UpdateByIDAndUser(ctx context.Context, id, userID string, fields model.MealFields, updatedAt time.Time) (int64, error)

	// FindByIDAndUser は指定IDかつ所有ユーザーが一致する食事を取得する。見つからない場合はnilを返す。
	FindByIDAndUser(ctx context.Context, id, userID string) (*model.Meal, error)

	// DeleteByIDAndUser は指定IDかつ所有ユーザーが一致する食事を削除する。
	DeleteByIDAndUser(ctx context.Context, id, userID string) error

	// ListByUserID はユーザーの食事一覧をストレージ順で返す。
	ListByUserID(ctx context.Context, userID string) ([]*model.Meal, error)

	// CountByUserID はユーザーの食事数を返す。
	CountByUserID(ctx context.Context, userID string) (int, error)

	// CountInDietByUserID はユーザーのダイエット内の食事数を返す。
	CountInDietByUserID(ctx context.Context, userID string) (int, error)

	// HighestInDietSequence はcreated_at昇順に並べたときの
	// ダイエット内の食事の最長連続数を返す。食事がない場合は0を返す。
	HighestInDietSequence(ctx context.Context, userID string) (int, error)
}
