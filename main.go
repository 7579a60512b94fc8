package main

import (
	"fmt"

	"bitwise74/media-api/api"
	"bitwise74/media-api/config"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	gin.SetMode(gin.ReleaseMode)

	err := config.Setup()
	if err != nil {
		panic(err)
	}

	a, err := api.NewRouter()
	if err != nil {
		panic(err)
	}

	if config.CleanerDisabled() {
		zap.L().Warn("Expiry cleanup is disabled, expired files will pile up")
	} else {
		a.Cleaner.Start()
		defer a.Cleaner.Stop()
	}

	zap.L().Info("Server starting")

	err = a.Router.Run(fmt.Sprintf(":%d", viper.GetInt("host.port")))
	if err != nil {
		panic(err)
	}
}
