package config

import "time"

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer

	DatabasePath string `env:"DATABASE_PATH" envDefault:"storefront.db"`

	Catalog Catalog `envPrefix:"CATALOG_"`
}

type Catalog struct {
	SourceURL    string        `env:"SOURCE_URL" envDefault:"http://localhost:8080/products.json"`
	FetchTimeout time.Duration `env:"FETCH_TIMEOUT" envDefault:"30s"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}
