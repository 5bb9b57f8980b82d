// Package meal はユーザー単位の食事記録と集計のドメインロジックを提供する。
package meal

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/dailydiet/internal/model"
	"github.com/hitoshi/dailydiet/internal/repository"
)

// EventRecorder は食事イベントのメトリクス記録インターフェース。
type EventRecorder interface {
	RecordMealCreated()
	RecordMealDeleted()
}

// Service は食事記録のサービス層。
// 全ての操作は呼び出し元のユーザーIDで絞り込む。
type Service struct {
	mealRepo repository.MealRepository
	recorder EventRecorder
	now      func() time.Time
	newID    func() string
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(mealRepo repository.MealRepository, recorder EventRecorder) *Service {
	return &Service{
		mealRepo: mealRepo,
		recorder: recorder,
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
	}
}

// Create は食事を記録する。updated_atは設定しない。
func (s *Service) Create(ctx context.Context, userID string, fields model.MealFields) (*model.Meal, error) {
	meal := &model.Meal{
		ID:           s.newID(),
		Name:         fields.Name,
		Description:  fields.Description,
		Time:         fields.Time,
		IsInsideDiet: fields.IsInsideDiet,
		UserID:       userID,
		CreatedAt:    s.now(),
	}

	if err := s.mealRepo.Create(ctx, meal); err != nil {
		return nil, fmt.Errorf("failed to create meal: %w", err)
	}

	if s.recorder != nil {
		s.recorder.RecordMealCreated()
	}
	return meal, nil
}

// Update は食事を更新し、updated_atを現在時刻にする。
// 該当する食事がない場合も成功として扱う（Deleteとは非対称）。
func (s *Service) Update(ctx context.Context, userID, mealID string, fields model.MealFields) error {
	affected, err := s.mealRepo.UpdateByIDAndUser(ctx, mealID, userID, fields, s.now())
	if err != nil {
		return fmt.Errorf("failed to update meal: %w", err)
	}

	if affected == 0 {
		slog.Debug("meal update matched no rows",
			slog.String("user_id", userID),
			slog.String("meal_id", mealID),
		)
	}
	return nil
}

// Delete は食事を削除する。見つからない場合はMealNotFoundを返す。
func (s *Service) Delete(ctx context.Context, userID, mealID string) error {
	meal, err := s.mealRepo.FindByIDAndUser(ctx, mealID, userID)
	if err != nil {
		return fmt.Errorf("failed to find meal: %w", err)
	}
	if meal == nil {
		return model.NewMealNotFoundError(mealID)
	}

	if err := s.mealRepo.DeleteByIDAndUser(ctx, mealID, userID); err != nil {
		return fmt.Errorf("failed to delete meal: %w", err)
	}

	if s.recorder != nil {
		s.recorder.RecordMealDeleted()
	}
	return nil
}

// Get は食事を1件取得する。見つからない場合はMealNotFoundを返す。
func (s *Service) Get(ctx context.Context, userID, mealID string) (*model.Meal, error) {
	meal, err := s.mealRepo.FindByIDAndUser(ctx, mealID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find meal: %w", err)
	}
	if meal == nil {
		return nil, model.NewMealNotFoundError(mealID)
	}
	return meal, nil
}

// List はユーザーの食事一覧を返す。
func (s *Service) List(ctx context.Context, userID string) ([]*model.Meal, error) {
	meals, err := s.mealRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list meals: %w", err)
	}
	return meals, nil
}

// Metrics はユーザーの食事集計を返す。
// 3つの集計クエリを順に実行し、いずれかが失敗した場合は部分的な結果を返さない。
func (s *Service) Metrics(ctx context.Context, userID string) (*model.MealMetrics, error) {
	total, err := s.mealRepo.CountByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count meals: %w", err)
	}

	inDiet, err := s.mealRepo.CountInDietByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count in-diet meals: %w", err)
	}

	highest, err := s.mealRepo.HighestInDietSequence(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute in-diet sequence: %w", err)
	}

	return &model.MealMetrics{
		TotalMeals:            total,
		InDietMeals:           inDiet,
		OutOfDietMeals:        total - inDiet,
		HighestInDietSequence: highest,
	}, nil
}
