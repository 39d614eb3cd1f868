package main

import (
	"flag"
	"payfast/config"
	"payfast/internal"
	"payfast/metrics"
	"payfast/services"
)

func main() {

	logger := internal.NewLogger("internal", false, nil)

	configPath := flag.String("conf", "config.yml", "path to config file")
	flag.Parse()

	logger.Info("using config file: " + *configPath)
	conf, err := config.GetConfig(*configPath)
	if err != nil {
		logger.Error("boot", err)
		return
	}

	var mongo services.Database
	if conf.Mongo.Enabled {
		mongo, err = internal.NewMongoClient(conf)
		if err != nil {
			logger.Error("mongo client", err)
			return
		}
		logger.Info("mongo client initialized")
	}

	gateway, err := internal.NewGateway(conf)
	if err != nil {
		logger.Error("gateway client", err)
		return
	}
	gateway.SetLogger(internal.NewLogger("gateway", conf.IsDebug, mongo))
	gateway.SetDatabase(mongo)

	go func() {
		if err := metrics.Listen(conf); err != nil {
			logger.Error("metrics server", err)
		}
	}()

	server := internal.NewServer(conf)
	server.SetLogger(internal.NewLogger("server", conf.IsDebug, mongo))
	server.SetGatewayService(gateway)

	err = server.Start()
	if err != nil {
		logger.Error("server start", err)
		return
	}

}
