package config

type App struct {
	Port          string `env:"APP_PORT" default:"8080"`
	DatabaseURL   string `env:"DATABASE_URL,required"`
	SessionSecret string `env:"SESSION_SECRET"`
	Env           string `env:"APP_ENV" default:"dev"`
}
