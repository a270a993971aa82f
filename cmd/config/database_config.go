package config

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"foodsafety-backend/internal/utils"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func ConnectDB() (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=%s",
		utils.GetConfig("DB_HOST"),
		utils.GetConfig("DB_USER"),
		utils.GetConfig("DB_PASSWORD"),
		utils.GetConfig("DB_NAME"),
		utils.GetConfig("DB_PORT"),
		utils.GetConfigOr("TIMEZONE", "Asia/Kolkata"),
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	return db, nil
}

// ConnectRedis returns nil without error when REDIS_ADDR is unset.
func ConnectRedis(ctx context.Context) (*redis.Client, error) {
	addr := utils.GetConfig("REDIS_ADDR")
	if addr == "" {
		return nil, nil
	}

	dbIndex, err := strconv.Atoi(utils.GetConfigOr("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: utils.GetConfig("REDIS_PASSWORD"),
		DB:       dbIndex,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}
	return rdb, nil
}
