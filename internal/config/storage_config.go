package config

import "strconv"

type StorageConfig interface {
	GetSQLitePath() string
	GetSQLitePoolSize() int
}

type Storage struct{}

var _ StorageConfig = Storage{}

func (Storage) GetSQLitePath() string {
	return GetEnv("SQLITE_DB_FILE", "./data/app.db")
}

func (Storage) GetSQLitePoolSize() int {
	raw := GetEnv("SQLITE_POOL_SIZE", "")
	if raw == "" {
		return 4
	}
	size, err := strconv.Atoi(raw)
	if err != nil || size <= 0 {
		return 4
	}
	return size
}
