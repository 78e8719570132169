package main

import (
	"context"

	"backend/internal/pkg"

	"github.com/sirupsen/logrus"
)

// @title Ads Marketplace API
// @version 1.0
// @description Сервис объявлений: заказчики публикуют работы, исполнители откликаются и выполняют их

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logrus.Info("App start")

	app, err := pkg.NewApp(context.Background())
	if err != nil {
		logrus.Fatal("cannot init app: ", err)
	}

	app.RunApp()
	logrus.Info("App terminated")
}
