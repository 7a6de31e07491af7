// internal/models/query_types.go
package models

type QueryType string

const (
	QueryTypePropertySearch  QueryType = "property_search"
	QueryTypePropertyByID    QueryType = "property_by_id"
	QueryTypeUserFavorites   QueryType = "user_favorites"
	QueryTypeUserPreferences QueryType = "user_preferences"
	QueryTypeUserSearchLog   QueryType = "user_search_log"
)
