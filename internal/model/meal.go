// Package model はドメインモデルを定義する。
package model

import "time"

// Meal はユーザーが記録した食事を表す。
// Timeは呼び出し側が指定した文字列で、日時としては解釈しない。
type Meal struct {
	ID           string
	Name         string
	Description  string
	Time         string
	IsInsideDiet bool
	UserID       string
	CreatedAt    time.Time
	UpdatedAt    *time.Time // 初回更新までnil
}

// MealFields はユーザーが作成・更新時に指定する食事の項目。
type MealFields struct {
	Name         string
	Description  string
	Time         string
	IsInsideDiet bool
}

// MealMetrics はユーザー単位の食事集計結果を表す。
type MealMetrics struct {
	TotalMeals            int
	InDietMeals           int
	OutOfDietMeals        int
	HighestInDietSequence int
}
