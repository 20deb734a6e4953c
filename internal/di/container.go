package di

import (
	"github.com/GoArmGo/DaySince/internal/app"
	"github.com/GoArmGo/DaySince/internal/auth"
	"github.com/GoArmGo/DaySince/internal/config"
	"github.com/GoArmGo/DaySince/internal/database/client"
	"github.com/GoArmGo/DaySince/internal/database/postgres"
	"github.com/GoArmGo/DaySince/internal/database/storage"
	"github.com/GoArmGo/DaySince/internal/handler"
	"github.com/GoArmGo/DaySince/internal/logger"
	"github.com/GoArmGo/DaySince/internal/usecase"
	"github.com/GoArmGo/DaySince/internal/validation"
)

// BuildApp инициализирует все зависимости и возвращает готовый объект App.
func BuildApp() (*app.App, error) {
	// 1. Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	slogger := logger.NewSlog(logger.SlogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	slogger.Info("logger initialized", "level", cfg.LogLevel, "format", cfg.LogFormat)

	// 2. PostgreSQL клиент + миграции
	dbClient, err := client.NewClient(cfg, slogger)
	if err != nil {
		return nil, err
	}

	// GORM работает поверх того же пула
	gormDB, err := postgres.NewGormDB(dbClient.DB.DB, slogger)
	if err != nil {
		_ = dbClient.Close()
		return nil, err
	}

	// 3. Инициализация хранилищ
	counterStorage := storage.NewCounterStorage(dbClient.DB, slogger)
	userStorage := postgres.NewGormUserStorage(gormDB, slogger)
	tagStorage := postgres.NewGormTagStorage(gormDB, slogger)

	// 4. Бизнес-логика
	validator := validation.New()
	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.TTL)

	counterUseCase := usecase.NewCounterUseCase(counterStorage, validator, slogger)
	tagUseCase := usecase.NewTagUseCase(tagStorage)
	userUseCase := usecase.NewUserUseCase(userStorage, validator, slogger)
	authUseCase := usecase.NewAuthUseCase(userStorage, tokens, validator, slogger)

	// 5. HTTP
	router := handler.NewRouter(handler.RouterDeps{
		Counters:       handler.NewCounterHandler(counterUseCase, slogger),
		Tags:           handler.NewTagHandler(tagUseCase, slogger),
		Users:          handler.NewUserHandler(userUseCase, slogger),
		Auth:           handler.NewAuthHandler(authUseCase, slogger),
		Health:         handler.NewHealthHandler(dbClient, slogger),
		Verifier:       tokens,
		Logger:         slogger,
		RequestTimeout: cfg.RequestTimeout,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})

	application := app.NewApp(cfg, slogger, dbClient, router)

	slogger.Info("all dependencies initialized")
	return application, nil
}
