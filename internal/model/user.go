// Package model はドメインモデルを定義する。
package model

import "time"

// User はサービス利用ユーザーを表す。
// パスワードは登録時の値をそのまま保持する。
type User struct {
	ID        string
	Name      string
	Password  string
	CreatedAt time.Time
}
