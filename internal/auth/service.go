// Package auth はユーザー登録とログイン（セッショントークン発行）を提供する。
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/dailydiet/internal/model"
	"github.com/hitoshi/dailydiet/internal/repository"
)

// EventRecorder は認証イベントのメトリクス記録インターフェース。
type EventRecorder interface {
	RecordUserRegistered()
	RecordLoginFailure()
}

// Service は認証に関するビジネスロジックを提供する。
// セッションはサーバー側に保持せず、ユーザーIDをそのままトークンとして発行する。
type Service struct {
	userRepo repository.UserRepository
	recorder EventRecorder
	now      func() time.Time
	newID    func() string
}

// NewService はServiceを生成する。
func NewService(userRepo repository.UserRepository, recorder EventRecorder) *Service {
	return &Service{
		userRepo: userRepo,
		recorder: recorder,
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
	}
}

// Register はユーザーを新規登録する。同名ユーザーの重複登録は許容する。
func (s *Service) Register(ctx context.Context, name, password string) (*model.User, error) {
	user := &model.User{
		ID:        s.newID(),
		Name:      name,
		Password:  password,
		CreatedAt: s.now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	if s.recorder != nil {
		s.recorder.RecordUserRegistered()
	}
	slog.Info("user registered", slog.String("user_id", user.ID))

	return user, nil
}

// Login は名前とパスワードが一致するユーザーのセッショントークンを返す。
// トークンはユーザーIDそのもの。名前不一致とパスワード不一致はどちらもUserNotFoundになる。
func (s *Service) Login(ctx context.Context, name, password string) (string, error) {
	user, err := s.userRepo.FindByCredentials(ctx, name, password)
	if err != nil {
		return "", fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		if s.recorder != nil {
			s.recorder.RecordLoginFailure()
		}
		return "", model.NewUserNotFoundError()
	}

	slog.Info("user logged in", slog.String("user_id", user.ID))
	return user.ID, nil
}
