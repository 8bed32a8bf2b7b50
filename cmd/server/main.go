package main

import (
	"net/http"

	"farmlink-be/internal/cart"
	"farmlink-be/internal/catalog"
	"farmlink-be/internal/config"
	"farmlink-be/internal/db"
	"farmlink-be/internal/httpapi"
	"farmlink-be/internal/logger"
	"farmlink-be/internal/order"
	"farmlink-be/internal/user"

	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := db.InitDB(cfg)
	defer database.Close()

	userRepo := user.NewRepository(database)
	userSvc := user.NewService(userRepo)

	catalogRepo := catalog.NewRepository(database)
	catalogSvc := catalog.NewService(catalogRepo, userRepo)

	cartRepo := cart.NewRepository(database)
	cartSvc := cart.NewService(cartRepo, catalogRepo)

	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo)

	router := httpapi.NewRouter(httpapi.RouterConfig{
		SecretKey:      []byte(cfg.SecretKey),
		CartService:    cartSvc,
		OrderService:   orderSvc,
		CatalogService: catalogSvc,
		UserService:    userSvc,
	})

	logger.L().Info("server listening", zap.String("port", cfg.AppPort))
	if err := http.ListenAndServe(":"+cfg.AppPort, router); err != nil {
		logger.L().Fatal("server stopped", zap.Error(err))
	}
}
