// Package validate はリクエスト入力の検証関数を提供する。
// 各関数は検証済みの値か、フィールド別の詳細を持つバリデーションエラーを返す。
// ストアへのアクセス前に呼び出すこと。
package validate

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/google/uuid"
	"github.com/hitoshi/dailydiet/internal/model"
)

// フィールド別エラーの詳細文言
const (
	reasonRequired     = "required"
	reasonNotString    = "expected string"
	reasonNotBoolean   = "expected boolean"
	reasonNotUUID      = "invalid uuid"
	reasonNotAnObject  = "expected JSON object"
	canonicalUUIDChars = 36
)

// Credentials はユーザー登録・ログインの入力値。
type Credentials struct {
	Name     string
	Password string
}

// UserCredentials は {name, password} を検証する。
// 両方とも必須の文字列で、空文字列は許容する。
func UserCredentials(body io.Reader) (Credentials, error) {
	obj, err := decodeObject(body)
	if err != nil {
		return Credentials{}, err
	}

	fields := map[string]string{}
	creds := Credentials{
		Name:     stringField(obj, "name", fields),
		Password: stringField(obj, "password", fields),
	}
	if len(fields) > 0 {
		return Credentials{}, model.NewValidationError(fields)
	}
	return creds, nil
}

// MealBody は {name, description, time, isInsideDiet} を検証する。
// timeは文字列であることのみ確認し、日時としては解釈しない。
func MealBody(body io.Reader) (model.MealFields, error) {
	obj, err := decodeObject(body)
	if err != nil {
		return model.MealFields{}, err
	}

	fields := map[string]string{}
	meal := model.MealFields{
		Name:         stringField(obj, "name", fields),
		Description:  stringField(obj, "description", fields),
		Time:         stringField(obj, "time", fields),
		IsInsideDiet: boolField(obj, "isInsideDiet", fields),
	}
	if len(fields) > 0 {
		return model.MealFields{}, model.NewValidationError(fields)
	}
	return meal, nil
}

// MealID はパスパラメータのidがハイフン区切りのUUIDであることを検証する。
func MealID(raw string) (string, error) {
	if len(raw) != canonicalUUIDChars {
		return "", model.NewValidationError(map[string]string{"id": reasonNotUUID})
	}
	if _, err := uuid.Parse(raw); err != nil {
		return "", model.NewValidationError(map[string]string{"id": reasonNotUUID})
	}
	return raw, nil
}

// decodeObject はボディをJSONオブジェクトとして読み込む。
func decodeObject(body io.Reader) (map[string]json.RawMessage, error) {
	if body == nil {
		return nil, model.NewValidationError(map[string]string{"body": reasonNotAnObject})
	}

	var obj map[string]json.RawMessage
	if err := json.NewDecoder(body).Decode(&obj); err != nil || obj == nil {
		return nil, model.NewValidationError(map[string]string{"body": reasonNotAnObject})
	}
	return obj, nil
}

// stringField は文字列フィールドを取り出す。不備はfieldsに記録する。
func stringField(obj map[string]json.RawMessage, name string, fields map[string]string) string {
	raw, ok := present(obj, name)
	if !ok {
		fields[name] = reasonRequired
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		fields[name] = reasonNotString
		return ""
	}
	return s
}

// boolField は真偽値フィールドを取り出す。不備はfieldsに記録する。
func boolField(obj map[string]json.RawMessage, name string, fields map[string]string) bool {
	raw, ok := present(obj, name)
	if !ok {
		fields[name] = reasonRequired
		return false
	}

	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		fields[name] = reasonNotBoolean
		return false
	}
	return b
}

// present はフィールドが存在しnullでない場合に生の値を返す。
func present(obj map[string]json.RawMessage, name string) (json.RawMessage, bool) {
	raw, ok := obj[name]
	if !ok {
		return nil, false
	}
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, false
	}
	return raw, true
}
