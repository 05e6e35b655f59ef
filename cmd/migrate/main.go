package main

import (
	"errors"
	"flag"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/routiva/routiva-api/pkg/config"
	"github.com/routiva/routiva-api/pkg/logger"
)

// Aplica las migraciones SQL de ./migrations contra la base configurada.
//
//	go run ./cmd/migrate            # aplica todas las pendientes
//	go run ./cmd/migrate -down 1    # revierte la última
func main() {
	var down int
	var source string
	flag.IntVar(&down, "down", 0, "número de migraciones a revertir (0 = aplicar pendientes)")
	flag.StringVar(&source, "source", "file://migrations", "origen de las migraciones")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info"})

	m, err := migrate.New(source, cfg.DB.ConnectionString())
	if err != nil {
		log.Fatal().Err(err).Msg("abrir migraciones")
	}
	defer m.Close()

	if down > 0 {
		err = m.Steps(-down)
	} else {
		err = m.Up()
	}
	if err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info().Msg("sin cambios: el esquema ya está al día")
			return
		}
		log.Fatal().Err(err).Msg("aplicar migraciones")
	}
	log.Info().Msg("migraciones aplicadas")
}
